package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/reqs/internal/adapters/telemetry"
	"go.trai.ch/reqs/internal/core/domain"
)

func TestNoOp(t *testing.T) {
	tel := telemetry.NewNoOp()
	ctx := context.Background()

	got, vertex := tel.Record(ctx, "requirements.txt")
	assert.Equal(t, ctx, got)

	n, err := vertex.Stdout().Write([]byte("ignored"))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	vertex.Log(domain.LogLevelError, "ignored")
	vertex.Cached()
	vertex.Complete(errors.New("ignored"))

	assert.NoError(t, tel.Close())
}
