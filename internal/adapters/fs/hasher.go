package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/reqs/internal/core/ports"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher fingerprints manifest content with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint returns the 64-bit XXHash of data as 16 hex digits.
func (h *Hasher) Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
