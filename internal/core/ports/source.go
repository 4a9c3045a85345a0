// Package ports defines the core interfaces for the application.
package ports

import "context"

// ManifestSource reads and writes manifest files.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type ManifestSource interface {
	// Read returns the content of the manifest at path.
	// A missing file is reported as domain.ErrManifestNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the content of the manifest at path.
	Write(path string, data []byte) error

	// Resolve returns the path of target as referenced from the manifest at from.
	Resolve(from, target string) string
}

// ManifestFinder discovers manifests in a directory tree.
type ManifestFinder interface {
	// Discover returns the manifests under root whose file name matches pattern, sorted.
	Discover(root, pattern string) ([]string, error)
}
