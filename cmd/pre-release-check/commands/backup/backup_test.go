package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/paths"
)

// setup creates a repository with one file and n backups of it.
func setup(t *testing.T, n int) (*options, string) {
	t.Helper()
	t.Setenv(paths.EnvBackupDir, t.TempDir())

	dir := t.TempDir()
	root, err := paths.ResolveTarget(dir)
	require.NoError(t, err)

	file := filepath.Join(root, "deploy.sh")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh\n"), 0o644))

	mgr := backup.NewManager()
	for i := range n {
		s := mgr.NewSession(paths.TargetKey(root), root, fmt.Sprintf("run-%d", i))
		require.NoError(t, s.Preserve(file))
	}
	return &options{dir: dir}, file
}

func TestList_Empty(t *testing.T) {
	o, _ := setup(t, 0)

	var buf bytes.Buffer
	require.NoError(t, runList(&buf, o, false))
	assert.Contains(t, buf.String(), "(no backups available)")
}

func TestList_JSON(t *testing.T) {
	o, _ := setup(t, 2)

	var buf bytes.Buffer
	require.NoError(t, runList(&buf, o, true))

	var out listOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Backups, 2)
	for _, b := range out.Backups {
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, 1, b.FileCount)
	}
}

func TestList_Table(t *testing.T) {
	o, _ := setup(t, 1)

	var buf bytes.Buffer
	require.NoError(t, runList(&buf, o, false))
	assert.Contains(t, buf.String(), "ID")
	assert.Contains(t, buf.String(), "CREATED")
}

func TestRestore_Latest(t *testing.T) {
	o, file := setup(t, 1)
	require.NoError(t, os.WriteFile(file, []byte("changed\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, runRestore(&buf, o, nil))
	assert.Contains(t, buf.String(), "Using most recent backup")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))
}

func TestRestore_NoBackups(t *testing.T) {
	o, _ := setup(t, 0)

	var buf bytes.Buffer
	err := runRestore(&buf, o, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backups found")
}

func TestRestore_UnknownID(t *testing.T) {
	o, _ := setup(t, 1)

	var buf bytes.Buffer
	err := runRestore(&buf, o, []string{"20990101T000000-deadbeef"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, backup.ErrNoBackupsFound))
}

func TestPrune(t *testing.T) {
	o, _ := setup(t, 3)

	var buf bytes.Buffer
	require.NoError(t, runPrune(&buf, o, 1))
	assert.Contains(t, buf.String(), "Removed 2 old backup(s)")

	manifests, err := o.manager().List(mustNamespace(t, o))
	require.NoError(t, err)
	assert.Len(t, manifests, 1)

	buf.Reset()
	require.NoError(t, runPrune(&buf, o, 1))
	assert.Contains(t, buf.String(), "No backups to prune")
}

func TestPrune_NegativeKeep(t *testing.T) {
	o, _ := setup(t, 0)

	err := runPrune(&bytes.Buffer{}, o, -1)
	assert.Equal(t, errors.ExitUsage, errors.CodeOf(err))
}

func TestNamespace_MissingDir(t *testing.T) {
	o := &options{dir: filepath.Join(t.TempDir(), "missing")}

	_, _, err := o.namespace()
	assert.Equal(t, errors.ExitUsage, errors.CodeOf(err))
}

func mustNamespace(t *testing.T, o *options) string {
	t.Helper()
	_, ns, err := o.namespace()
	require.NoError(t, err)
	return ns
}
