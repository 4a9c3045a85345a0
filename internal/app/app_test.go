package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/internal/adapters/cas"
	"go.trai.ch/reqs/internal/adapters/fs"
	"go.trai.ch/reqs/internal/adapters/render"
	"go.trai.ch/reqs/internal/adapters/telemetry"
	"go.trai.ch/reqs/internal/app"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/reqs/internal/core/ports/mocks"
	"go.trai.ch/reqs/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

const referenceManifest = `# torch nightly is needed for flash attention
--extra-index-url https://download.pytorch.org/whl/nightly/cu118 --pre
torch>=2.1.0dev
lightning @ git+https://github.com/Lightning-AI/lightning@master
tokenizers
jsonargparse[signatures]  # CLI
bitsandbytes  # quantization
`

type fixture struct {
	dir     string
	cfg     *domain.Config
	out     *bytes.Buffer
	store   ports.StateStore
	logger  *mocks.MockLogger
	watcher *mocks.MockWatcher
	app     *app.App
}

type fixtureOption func(*fixture, *gomock.Controller)

func newFixture(t *testing.T, files map[string]string, opts ...fixtureOption) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}

	f := &fixture{
		dir: dir,
		cfg: &domain.Config{
			Root:        dir,
			Pattern:     domain.DefaultManifestPattern,
			Format:      domain.FormatText,
			Parallelism: 2,
			StatePath:   filepath.Join(dir, domain.DefaultStatePath),
		},
		out:     &bytes.Buffer{},
		logger:  mocks.NewMockLogger(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
	}
	for _, opt := range opts {
		opt(f, ctrl)
	}
	if f.store == nil {
		f.store = cas.NewStore(f.cfg.StatePath)
	}

	configLoader := mocks.NewMockConfigLoader(ctrl)
	configLoader.EXPECT().Load(dir).Return(f.cfg, nil).AnyTimes()

	source := fs.NewSource()
	f.app = app.New(
		configLoader,
		scheduler.NewLoader(source, telemetry.NewNoOp()),
		source,
		fs.NewWalker(),
		fs.NewHasher(),
		f.store,
		render.New(),
		f.watcher,
		f.logger,
	).WithOutput(f.out).WithDir(dir)

	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // Test fixture path
	require.NoError(t, err)
	return string(data)
}

func metadata(t *testing.T, err error, key string) any {
	t.Helper()
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	return zErr.Metadata()[key]
}

func TestApp_Parse(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": referenceManifest})

	err := f.app.Parse(context.Background(), []string{"requirements.txt"}, app.ParseOptions{})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "requirements.txt (5 requirements)\n")
	assert.Contains(t, out, "extra-index https://download.pytorch.org/whl/nightly/cu118\n")
	assert.Contains(t, out, "pre-releases allowed\n")
	assert.Contains(t, out, "git+https://github.com/Lightning-AI/lightning@master")
}

func TestApp_Parse_JSON(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": referenceManifest})

	err := f.app.Parse(context.Background(), []string{"requirements.txt"}, app.ParseOptions{Format: "json"})
	require.NoError(t, err)

	assert.Contains(t, f.out.String(), `"name": "jsonargparse"`)
	assert.Contains(t, f.out.String(), `"canonical": "torch>=2.1.0dev"`)
}

func TestApp_Parse_InvalidLine(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": "numpy\ntorch>=\n"})

	err := f.app.Parse(context.Background(), []string{"requirements.txt"}, app.ParseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidManifest)
	assert.Equal(t, "requirements.txt", metadata(t, err, "path"))
	assert.Equal(t, 2, metadata(t, err, "line"))
	assert.Empty(t, f.out.String())
}

func TestApp_Parse_UnknownFormat(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": "numpy\n"})

	err := f.app.Parse(context.Background(), []string{"requirements.txt"}, app.ParseOptions{Format: "xml"})
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
}

func TestApp_Parse_MissingManifest(t *testing.T) {
	f := newFixture(t, nil)

	err := f.app.Parse(context.Background(), []string{"requirements.txt"}, app.ParseOptions{})
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestApp_Check(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": referenceManifest})

	err := f.app.Check(context.Background(), nil, app.CheckOptions{})
	require.NoError(t, err)

	assert.Equal(t, `requirements.txt:4: info: lightning tracks the moving branch "master" [mutable-ref]
requirements.txt:5: info: tokenizers has no version constraint [unpinned]
requirements.txt:6: info: jsonargparse has no version constraint [unpinned]
requirements.txt:7: info: bitsandbytes has no version constraint [unpinned]
0 error(s), 0 warning(s), 4 info
`, f.out.String())
}

func TestApp_Check_Failures(t *testing.T) {
	f := newFixture(t, map[string]string{
		"requirements.txt": "-r base.txt\n-r missing.txt\nfoo==1\nFoo==2\n",
		"base.txt":         "--bogus\nbar==1\n",
	})

	err := f.app.Check(context.Background(), []string{"requirements.txt"}, app.CheckOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckFailed)
	assert.Equal(t, 3, metadata(t, err, "errors"))

	out := f.out.String()
	assert.Contains(t, out, "base.txt:1: error:")
	assert.Contains(t, out, "[syntax]")
	assert.Contains(t, out, "requirements.txt:2: error: included manifest missing.txt does not exist [include]\n")
	assert.Contains(t, out, "requirements.txt:4: error: Foo is already required on line 3 [duplicate]\n")
	assert.Contains(t, out, "3 error(s), 0 warning(s), 0 info\n")
}

func TestApp_Check_Options(t *testing.T) {
	f := newFixture(t, map[string]string{
		"requirements.txt": "--index-url http://mirror.local/simple\nfoo\n",
	})
	f.cfg.Lint = domain.LintConfig{Strict: true}

	err := f.app.Check(context.Background(), nil, app.CheckOptions{
		Format:  "yaml",
		Disable: []string{"unpinned"},
	})
	assert.ErrorIs(t, err, domain.ErrCheckFailed)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, []map[string]any{{
		"path":     "requirements.txt",
		"line":     1,
		"rule":     "insecure-index",
		"severity": "error",
		"message":  "--index-url uses plain http: http://mirror.local/simple",
	}}, got)
}

func TestApp_ManifestSelection(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		manifests []string
		wantErr   error
		wantPaths []string
	}{
		{
			name: "discovered under the root",
			files: map[string]string{
				"requirements.txt":         "numpy\n",
				"svc/requirements-dev.txt": "pytest\n",
				"notes.txt":                "not a manifest\n",
			},
			wantPaths: []string{"requirements.txt", filepath.Join("svc", "requirements-dev.txt")},
		},
		{
			name: "configured list wins over discovery",
			files: map[string]string{
				"requirements.txt": "numpy\n",
				"deps/ml.txt":      "torch\n",
			},
			manifests: []string{"deps/ml.txt"},
			wantPaths: []string{filepath.Join("deps", "ml.txt")},
		},
		{
			name:    "nothing to check",
			files:   map[string]string{"setup.py": "\n"},
			wantErr: domain.ErrNoManifests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.files)
			f.cfg.Manifests = tt.manifests

			err := f.app.Status(context.Background(), nil, app.StatusOptions{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(f.out.String()), "\n") {
				got = append(got, strings.Fields(line)[0])
			}
			assert.ElementsMatch(t, tt.wantPaths, got)
		})
	}
}

func TestApp_Format(t *testing.T) {
	const messy = "torch >= 2.1.0dev\nfoo[b,a]  # extras\n"
	const canonical = "torch>=2.1.0dev\nfoo[a,b]  # extras\n"

	t.Run("prints canonical text", func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": messy})

		require.NoError(t, f.app.Format(context.Background(), nil, app.FormatOptions{}))
		assert.Equal(t, canonical, f.out.String())
		assert.Equal(t, messy, readFile(t, filepath.Join(f.dir, "requirements.txt")))
	})

	t.Run("writes changed files", func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": messy, "clean.txt": canonical})
		f.logger.EXPECT().Info("formatted requirements.txt")

		err := f.app.Format(context.Background(), []string{"requirements.txt", "clean.txt"}, app.FormatOptions{Write: true})
		require.NoError(t, err)
		assert.Equal(t, canonical, readFile(t, filepath.Join(f.dir, "requirements.txt")))
		assert.Empty(t, f.out.String())
	})

	t.Run("check lists unformatted files", func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": messy, "clean.txt": canonical})

		err := f.app.Format(context.Background(), []string{"requirements.txt", "clean.txt"}, app.FormatOptions{Check: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFormatted)
		assert.Equal(t, "requirements.txt", metadata(t, err, "manifests"))
		assert.Equal(t, "requirements.txt\n", f.out.String())
	})

	t.Run("includes are left alone", func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": "-r base.txt\n", "base.txt": messy})

		err := f.app.Format(context.Background(), []string{"requirements.txt"}, app.FormatOptions{Check: true})
		require.NoError(t, err)
	})

	t.Run("invalid manifests are not rewritten", func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": "torch >=\n"})

		err := f.app.Format(context.Background(), nil, app.FormatOptions{Write: true})
		assert.ErrorIs(t, err, domain.ErrInvalidManifest)
		assert.Equal(t, "torch >=\n", readFile(t, filepath.Join(f.dir, "requirements.txt")))
	})
}

func TestApp_Lock(t *testing.T) {
	var states []domain.ManifestState
	f := newFixture(t,
		map[string]string{"requirements.txt": "-r base.txt\ntorch\n", "base.txt": "numpy\n"},
		func(f *fixture, ctrl *gomock.Controller) {
			store := mocks.NewMockStateStore(ctrl)
			store.EXPECT().Put(gomock.Any()).DoAndReturn(func(s domain.ManifestState) error {
				states = append(states, s)
				return nil
			}).Times(2)
			f.store = store
		})
	locked := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	f.app.WithClock(func() time.Time { return locked })
	f.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, f.app.Lock(context.Background(), []string{"requirements.txt"}))

	require.Len(t, states, 2)
	assert.Equal(t, "base.txt", states[0].Path)
	assert.Equal(t, "requirements.txt", states[1].Path)

	hasher := fs.NewHasher()
	assert.Equal(t, hasher.Fingerprint([]byte("numpy\n")), states[0].ContentHash)
	assert.Equal(t, hasher.Fingerprint([]byte("numpy\n")), states[0].Fingerprint)
	for _, s := range states {
		assert.Equal(t, 1, s.Requirements)
		assert.Equal(t, locked, s.Timestamp)
		assert.Equal(t, states[0].SnapshotID, s.SnapshotID)
	}
	_, err := uuid.Parse(states[0].SnapshotID)
	assert.NoError(t, err)
}

func TestApp_LockStatus(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": referenceManifest})
	path := filepath.Join(f.dir, "requirements.txt")
	ctx := context.Background()

	status := func(t *testing.T) (domain.StateStatus, error) {
		t.Helper()
		f.out.Reset()
		err := f.app.Status(ctx, nil, app.StatusOptions{Format: "json", ExitCode: true})
		for _, s := range []domain.StateStatus{
			domain.StatusUnchanged, domain.StatusReformatted, domain.StatusModified, domain.StatusUntracked,
		} {
			if strings.Contains(f.out.String(), `"status": "`+string(s)+`"`) {
				return s, err
			}
		}
		t.Fatalf("no status in output:\n%s", f.out.String())
		return "", err
	}

	got, err := status(t)
	assert.Equal(t, domain.StatusUntracked, got)
	assert.ErrorIs(t, err, domain.ErrStateDrift)

	f.logger.EXPECT().Info(gomock.Any()).Times(2)
	require.NoError(t, f.app.Lock(ctx, nil))
	assert.FileExists(t, f.cfg.StatePath)

	got, err = status(t)
	assert.Equal(t, domain.StatusUnchanged, got)
	assert.NoError(t, err)

	writeFile(t, path, strings.ReplaceAll(referenceManifest, "torch>=2.1.0dev", "torch >= 2.1.0dev  # nightly"))
	got, err = status(t)
	assert.Equal(t, domain.StatusReformatted, got)
	assert.NoError(t, err)

	writeFile(t, path, strings.ReplaceAll(referenceManifest, "torch>=2.1.0dev", "torch>=2.2"))
	got, err = status(t)
	assert.Equal(t, domain.StatusModified, got)
	assert.ErrorIs(t, err, domain.ErrStateDrift)
	assert.Equal(t, "requirements.txt", metadata(t, err, "manifests"))

	require.NoError(t, f.app.Lock(ctx, nil))
	got, err = status(t)
	assert.Equal(t, domain.StatusUnchanged, got)
	assert.NoError(t, err)
}

func TestApp_Status_WithoutExitCode(t *testing.T) {
	f := newFixture(t, map[string]string{"requirements.txt": "numpy\n"})

	require.NoError(t, f.app.Status(context.Background(), nil, app.StatusOptions{}))
	assert.Equal(t, "requirements.txt  untracked  -  -\n", f.out.String())
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, map[string]string{"requirements.txt": "numpy==1.26\n"})
		f.app.WithDebounce(50 * time.Millisecond)

		events := make(chan ports.WatchEvent)
		f.watcher.EXPECT().Start(gomock.Any(), f.dir).Return(nil)
		var seq iter.Seq[ports.WatchEvent] = func(yield func(ports.WatchEvent) bool) {
			for e := range events {
				if !yield(e) {
					return
				}
			}
		}
		f.watcher.EXPECT().Events().Return(seq)
		f.watcher.EXPECT().Stop().DoAndReturn(func() error {
			close(events)
			return nil
		})
		f.logger.EXPECT().Info("1 files changed")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(ctx, nil, app.CheckOptions{})
		}()

		synctest.Wait()
		assert.Equal(t, "no problems found\n", f.out.String())

		path := filepath.Join(f.dir, "requirements.txt")
		writeFile(t, path, "numpy==1.26\nnumpy==2\n")
		events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: filepath.Join(f.dir, "train.py"), Operation: ports.OpWrite}

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Contains(t, f.out.String(), "requirements.txt:2: error: numpy is already required on line 1 [duplicate]")

		cancel()
		require.NoError(t, <-done)
	})
}

func TestApp_Watch_StartError(t *testing.T) {
	f := newFixture(t, nil)
	f.watcher.EXPECT().Start(gomock.Any(), f.dir).Return(errors.New("too many open files"))

	err := f.app.Watch(context.Background(), nil, app.CheckOptions{})
	assert.ErrorContains(t, err, "failed to start watcher")
}
