// Package fileutil reads and writes repository files safely.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/prerelease/internal/errors"
)

const defaultPerm os.FileMode = 0o644

// AtomicWriteFile replaces path with data. The content goes to a temporary
// sibling first and is renamed over path, so readers never observe a partial
// file and a failed write leaves the previous content in place.
//
// A zero perm keeps the mode of the file being replaced, or 0644 for a new
// file. The parent directory must already exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	if perm == 0 {
		perm = currentPerm(path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file mode")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replacing file")
	}
	return nil
}

// AtomicWriteJSON writes v to path as two-space indented JSON followed by a
// newline, using AtomicWriteFile.
func AtomicWriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}

func currentPerm(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return defaultPerm
	}
	return info.Mode().Perm()
}
