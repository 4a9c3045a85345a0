package ports

import (
	"context"
	"io"

	"go.trai.ch/reqs/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records units of work as they happen.
type Telemetry interface {
	// Record starts a new vertex for the named unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is a single recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for output produced by the work.
	Stdout() io.Writer
	// Log records a message on the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, with err on failure.
	Complete(err error)
	// Cached marks the vertex as satisfied without doing the work.
	Cached()
}
