package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/cmd/reqs/commands"
	"go.trai.ch/reqs/internal/adapters/cas"
	"go.trai.ch/reqs/internal/adapters/config"
	"go.trai.ch/reqs/internal/adapters/fs"
	"go.trai.ch/reqs/internal/adapters/logger"
	"go.trai.ch/reqs/internal/adapters/render"
	"go.trai.ch/reqs/internal/adapters/telemetry"
	"go.trai.ch/reqs/internal/adapters/watcher"
	"go.trai.ch/reqs/internal/app"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/engine/scheduler"
)

type harness struct {
	dir  string
	out  bytes.Buffer
	logs bytes.Buffer
	app  *app.App
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	h := &harness{dir: t.TempDir()}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(h.dir, name), []byte(content), 0o600))
	}

	log := logger.New()
	log.SetOutput(&h.logs)

	cfg, err := config.NewLoader(log).Load(h.dir)
	require.NoError(t, err)
	store := cas.NewStore(cfg.StatePath)

	source := fs.NewSource()
	a := app.New(
		config.NewLoader(log),
		scheduler.NewLoader(source, telemetry.NewNoOp()),
		source,
		fs.NewWalker(),
		fs.NewHasher(),
		store,
		render.New(),
		watcher.NewWatcher(log),
		log,
	).WithOutput(&h.out).WithDir(h.dir)

	h.app = a
	return h
}

// run executes args on a fresh command tree so flags do not carry over.
func (h *harness) run(args ...string) error {
	cli := commands.New(h.app)
	cli.SetOut(&h.out)
	cli.SetArgs(args)
	return cli.Execute(context.Background())
}

func TestVersion(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("version"))
	assert.Equal(t, "reqs version dev\n", h.out.String())
}

func TestRoot_Help(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.run("--help"))
	for _, sub := range []string{"parse", "check", "fmt", "lock", "status", "watch", "version"} {
		assert.Contains(t, h.out.String(), sub)
	}
}

func TestParse_FormatFlag(t *testing.T) {
	h := newHarness(t, map[string]string{"requirements.txt": "torch>=2.1.0dev\n"})

	require.NoError(t, h.run("parse", "-o", "yaml"))
	assert.Contains(t, h.out.String(), "- path: requirements.txt\n")
	assert.Contains(t, h.out.String(), "canonical: torch>=2.1.0dev\n")

	h.out.Reset()
	err := h.run("parse", "--format", "xml")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestCheck_Flags(t *testing.T) {
	h := newHarness(t, map[string]string{
		"requirements.txt": "--extra-index-url http://mirror.local/simple\ntokenizers\n",
	})

	require.NoError(t, h.run("check", "requirements.txt"))
	assert.Contains(t, h.out.String(), "requirements.txt:1: warning:")
	assert.Contains(t, h.out.String(), "requirements.txt:2: info: tokenizers has no version constraint [unpinned]")

	h.out.Reset()
	err := h.run("check", "--strict", "--disable", "unpinned,mutable-ref")
	assert.ErrorIs(t, err, domain.ErrCheckFailed)
	assert.Contains(t, h.out.String(), "requirements.txt:1: error:")
	assert.NotContains(t, h.out.String(), "[unpinned]")
}

func TestFmt(t *testing.T) {
	h := newHarness(t, map[string]string{"requirements.txt": "torch >= 2.1.0dev\n"})
	path := filepath.Join(h.dir, "requirements.txt")

	err := h.run("fmt", "--check")
	assert.ErrorIs(t, err, domain.ErrNotFormatted)
	assert.Equal(t, "requirements.txt\n", h.out.String())

	require.NoError(t, h.run("fmt", "-w"))
	data, err := os.ReadFile(path) //nolint:gosec // Test fixture path
	require.NoError(t, err)
	assert.Equal(t, "torch>=2.1.0dev\n", string(data))
	assert.Contains(t, h.logs.String(), "INFO formatted requirements.txt\n")

	err = h.run("fmt", "--write", "--check")
	assert.ErrorContains(t, err, "none of the others can be")
}

func TestLockStatus(t *testing.T) {
	h := newHarness(t, map[string]string{"requirements.txt": "numpy==1.26\n"})

	err := h.run("status", "--exit-code")
	assert.ErrorIs(t, err, domain.ErrStateDrift)
	assert.Contains(t, h.out.String(), "untracked")

	require.NoError(t, h.run("lock", "--quiet"))
	assert.Empty(t, h.logs.String())
	assert.FileExists(t, filepath.Join(h.dir, domain.DefaultStatePath))

	h.out.Reset()
	require.NoError(t, h.run("status", "--exit-code"))
	assert.Contains(t, h.out.String(), "unchanged")
}
