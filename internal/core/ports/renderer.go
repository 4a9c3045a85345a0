package ports

import (
	"io"

	"go.trai.ch/reqs/internal/core/domain"
)

// Renderer writes results in a chosen output format.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Manifests renders parsed manifests.
	Manifests(w io.Writer, format domain.OutputFormat, manifests []*domain.Manifest) error
	// Diagnostics renders check findings.
	Diagnostics(w io.Writer, format domain.OutputFormat, diags []domain.Diagnostic) error
	// Status renders lock state reports.
	Status(w io.Writer, format domain.OutputFormat, reports []domain.StateReport) error
}
