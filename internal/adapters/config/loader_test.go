package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/internal/adapters/config"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o600))
}

func TestLoad_Success(t *testing.T) {
	content := `
version: "1"
manifests:
  - requirements.txt
  - ./requirements-dev.txt
  - requirements.txt
pattern: "*.req"
format: json
parallelism: 3
state: build/lock.json
lint:
  disable: [unpinned]
  strict: true
`
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, content)

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(tmpDir), cfg.Root)
	assert.Equal(t, []string{"requirements.txt", "requirements-dev.txt"}, cfg.Manifests)
	assert.Equal(t, "*.req", cfg.Pattern)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, filepath.Join(tmpDir, "build", "lock.json"), cfg.StatePath)
	assert.Equal(t, domain.LintConfig{Disable: []string{"unpinned"}, Strict: true}, cfg.Lint)
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, config.Defaults(tmpDir), cfg)
	assert.Equal(t, domain.DefaultManifestPattern, cfg.Pattern)
	assert.Equal(t, domain.FormatText, cfg.Format)
	assert.Positive(t, cfg.Parallelism)
	assert.Equal(t, filepath.Join(tmpDir, ".reqs", "state.json"), cfg.StatePath)
	assert.Empty(t, cfg.Manifests)
}

func TestLoad_DiscoversParent(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "version: \"1\"\nroot: ml\n")
	nested := filepath.Join(tmpDir, "ml", "training")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	cfg, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "ml"), cfg.Root)
	assert.Equal(t, filepath.Join(tmpDir, "ml", ".reqs", "state.json"), cfg.StatePath)
}

func TestLoad_UnknownVersionWarns(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "version: \"2\"\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := config.NewLoader(log).Load(tmpDir)
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantField string
	}{
		{
			name:    "malformed yaml",
			content: "manifests: [unterminated\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:      "unknown format",
			content:   "format: xml\n",
			wantErr:   domain.ErrInvalidConfig,
			wantField: "format",
		},
		{
			name:      "negative parallelism",
			content:   "parallelism: -1\n",
			wantErr:   domain.ErrInvalidConfig,
			wantField: "parallelism",
		},
		{
			name:      "bad pattern",
			content:   "pattern: \"[\"\n",
			wantErr:   domain.ErrInvalidConfig,
			wantField: "pattern",
		},
		{
			name:      "absolute manifest",
			content:   "manifests: [/etc/requirements.txt]\n",
			wantErr:   domain.ErrInvalidConfig,
			wantField: "manifests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.content)

			ctrl := gomock.NewController(t)
			_, err := config.NewLoader(mocks.NewMockLogger(ctrl)).Load(tmpDir)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var zErr *zerr.Error
			require.True(t, errors.As(err, &zErr))
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, zErr.Metadata()["field"])
			}
			assert.Equal(t, filepath.Join(tmpDir, domain.ConfigFileName), zErr.Metadata()["config"])
		})
	}
}
