package domain

import "time"

// ManifestState is the locked snapshot of a manifest.
type ManifestState struct {
	Path string `json:"path,omitzero"`

	// Fingerprint hashes the canonical records, so formatting and comment
	// changes leave it unchanged.
	Fingerprint string `json:"fingerprint,omitzero"`

	// ContentHash hashes the raw file bytes.
	ContentHash string `json:"content_hash,omitzero"`

	Requirements int       `json:"requirements,omitzero"`
	SnapshotID   string    `json:"snapshot_id,omitzero"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}

// StateStatus compares a manifest with its locked state.
type StateStatus string

const (
	// StatusUnchanged means the file is byte-identical to the lock.
	StatusUnchanged StateStatus = "unchanged"
	// StatusReformatted means only formatting or comments changed.
	StatusReformatted StateStatus = "reformatted"
	// StatusModified means the records changed.
	StatusModified StateStatus = "modified"
	// StatusUntracked means the manifest was never locked.
	StatusUntracked StateStatus = "untracked"
)

// IsDrift reports whether the records differ from the lock.
func (s StateStatus) IsDrift() bool {
	return s == StatusModified || s == StatusUntracked
}

// Compare derives the status of a manifest from its current hashes and
// its locked state, which may be nil.
func Compare(locked *ManifestState, fingerprint, contentHash string) StateStatus {
	switch {
	case locked == nil:
		return StatusUntracked
	case locked.Fingerprint != fingerprint:
		return StatusModified
	case locked.ContentHash != contentHash:
		return StatusReformatted
	default:
		return StatusUnchanged
	}
}

// StateReport is the status of one manifest.
type StateReport struct {
	Path        string      `json:"path" yaml:"path"`
	Status      StateStatus `json:"status" yaml:"status"`
	Fingerprint string      `json:"fingerprint" yaml:"fingerprint"`
	SnapshotID  string      `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`
	LockedAt    time.Time   `json:"locked_at,omitzero" yaml:"locked_at,omitempty"`
}
