package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/internal/adapters/fs"
	"go.trai.ch/reqs/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_Discover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "requirements.txt"), "torch\n")
	writeFile(t, filepath.Join(root, "requirements-dev.txt"), "pytest\n")
	writeFile(t, filepath.Join(root, "ml", "requirements.txt"), "numpy\n")
	writeFile(t, filepath.Join(root, "ml", "setup.py"), "")
	writeFile(t, filepath.Join(root, ".venv", "lib", "requirements.txt"), "")
	writeFile(t, filepath.Join(root, "node_modules", "x", "requirements.txt"), "")
	writeFile(t, filepath.Join(root, ".git", "requirements.txt"), "")

	found, err := fs.NewWalker().Discover(root, domain.DefaultManifestPattern)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("ml", "requirements.txt"),
		"requirements-dev.txt",
		"requirements.txt",
	}, found)
}

func TestWalker_DiscoverBadPattern(t *testing.T) {
	_, err := fs.NewWalker().Discover(t.TempDir(), "[")
	require.Error(t, err)
}

func TestWalker_WalkFilesIgnores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "")
	writeFile(t, filepath.Join(root, "build", "b.txt"), "")

	var files []string
	for p := range fs.NewWalker().WalkFiles(root, []string{"build"}) {
		files = append(files, p)
	}
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, files)
}

func TestWalker_WalkFilesEarlyStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "")
	writeFile(t, filepath.Join(root, "b.txt"), "")

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestHasher_Fingerprint(t *testing.T) {
	h := fs.NewHasher()

	a := h.Fingerprint([]byte("torch>=2.1.0dev\n"))
	b := h.Fingerprint([]byte("torch>=2.1.0dev\n"))
	c := h.Fingerprint([]byte("torch>=2.2\n"))

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "ef46db3751d8e999", h.Fingerprint(nil))
}

func TestSource_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	writeFile(t, path, "torch\n")
	require.NoError(t, os.Chmod(path, 0o640))

	src := fs.NewSource()

	data, err := src.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "torch\n", string(data))

	require.NoError(t, src.Write(path, []byte("torch>=2.1\n")))

	data, err = src.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "torch>=2.1\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSource_ReadMissing(t *testing.T) {
	_, err := fs.NewSource().Read(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestSource_ReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewSource().Read(ctx, "requirements.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_Resolve(t *testing.T) {
	src := fs.NewSource()

	assert.Equal(t, filepath.Join("ml", "base.txt"), src.Resolve(filepath.Join("ml", "requirements.txt"), "base.txt"))
	assert.Equal(t, "base.txt", src.Resolve(filepath.Join("ml", "requirements.txt"), "../base.txt"))
	assert.Equal(t, filepath.Join("ml", "nested", "c.txt"), src.Resolve(filepath.Join("ml", "requirements.txt"), "nested/c.txt"))

	abs := filepath.Join(t.TempDir(), "x.txt")
	assert.Equal(t, abs, src.Resolve("requirements.txt", abs))
}
