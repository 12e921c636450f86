package validators

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// newTarget writes files below a temporary root and returns the target.
func newTarget(t *testing.T, files map[string]string) *validator.Target {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)
	return validator.NewTarget(root, nil)
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func validate(t *testing.T, v validator.Validator, target *validator.Target) *validator.Result {
	t.Helper()
	r := v.Validate(context.Background(), target, validator.DefaultOptions())
	require.NotNil(t, r)
	require.Equal(t, v.Name(), r.Name)
	return r
}

// testConfig returns the built-in defaults.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("PRC_CONFIG_DIR", t.TempDir())
	config.Init()
	cfg, err := config.Load(t.TempDir(), "")
	require.NoError(t, err)
	return cfg
}

// mockTools is a tool.Runner backed by testify/mock.
type mockTools struct {
	mock.Mock
}

func (m *mockTools) LookPath(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *mockTools) Run(ctx context.Context, dir, name string, args ...string) (tool.Result, error) {
	a := m.Called(ctx, dir, name, args)
	return a.Get(0).(tool.Result), a.Error(1)
}

// recordingEnv is a FixEnv that records which paths were locked and
// preserved.
type recordingEnv struct {
	mu        sync.Mutex
	locked    []string
	preserved []string
}

func (e *recordingEnv) Lock(path string) func() {
	e.mu.Lock()
	e.locked = append(e.locked, path)
	e.mu.Unlock()
	return func() {}
}

func (e *recordingEnv) Preserve(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preserved = append(e.preserved, path)
	return nil
}
