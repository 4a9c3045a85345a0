package ports

// Fingerprinter computes content fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprint.go -destination=mocks/mock_fingerprint.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a stable hex digest of data.
	Fingerprint(data []byte) string
}
