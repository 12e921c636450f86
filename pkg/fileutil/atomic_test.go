package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name     string
		existing os.FileMode
		perm     os.FileMode
		wantPerm os.FileMode
	}{
		{name: "new file", perm: 0o600, wantPerm: 0o600},
		{name: "new file default mode", wantPerm: 0o644},
		{name: "keeps existing mode", existing: 0o755, wantPerm: 0o755},
		{name: "explicit mode wins", existing: 0o755, perm: 0o640, wantPerm: 0o640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "deploy.sh")
			if tt.existing != 0 {
				require.NoError(t, os.WriteFile(path, []byte("old\n"), tt.existing))
				require.NoError(t, os.Chmod(path, tt.existing))
			}

			require.NoError(t, AtomicWriteFile(path, []byte("#!/bin/sh\nexit 0\n"), tt.perm))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "#!/bin/sh\nexit 0\n", string(got))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPerm, info.Mode().Perm())
		})
	}
}

func TestAtomicWriteFile_MissingParent(t *testing.T) {
	dir := t.TempDir()

	err := AtomicWriteFile(filepath.Join(dir, "missing", "file.txt"), []byte("x"), 0o600)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAtomicWriteFile_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0o644))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.txt", entries[0].Name())
}

func TestAtomicWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	manifest := struct {
		ID    string   `json:"id"`
		Files []string `json:"files"`
	}{ID: "20261019T120000", Files: []string{"a.sh"}}

	require.NoError(t, AtomicWriteJSON(path, manifest, 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": \"20261019T120000\",\n  \"files\": [\n    \"a.sh\"\n  ]\n}\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAtomicWriteJSON_EncodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	err := AtomicWriteJSON(path, make(chan int), 0o600)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "encoding JSON"))
	assert.NoFileExists(t, path)
}
