package validator

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/pkg/fileutil"
)

// Target is the repository under validation. It is shared read-only by all
// validators of a run.
type Target struct {
	// Root is the absolute path of the repository.
	Root string

	// Exclude holds patterns (see scan.Match) removed from the file listing.
	Exclude []string

	files func() ([]string, error)
}

// NewTarget creates a target rooted at root. The file listing is walked on
// first use and memoized.
func NewTarget(root string, exclude []string) *Target {
	t := &Target{Root: root, Exclude: exclude}
	t.files = sync.OnceValues(func() ([]string, error) {
		return scan.Files(context.Background(), root, exclude)
	})
	return t
}

// Files returns every file of the target as sorted, slash-separated paths
// relative to Root. The returned slice must not be modified.
func (t *Target) Files() ([]string, error) {
	return t.files()
}

// Match returns the files matching any of the patterns.
func (t *Target) Match(patterns ...string) ([]string, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	return scan.Filter(files, patterns...), nil
}

// Abs returns the absolute path of a relative target path.
func (t *Target) Abs(rel string) string {
	return filepath.Join(t.Root, filepath.FromSlash(rel))
}

// Exists reports whether rel exists in the target, excluded or not.
func (t *Target) Exists(rel string) bool {
	_, err := os.Stat(t.Abs(rel))
	return err == nil
}

// ReadFile reads a text file of the target with the size and binary limits
// of fileutil.ReadTextFile.
func (t *Target) ReadFile(rel string) ([]byte, error) {
	return fileutil.ReadTextFile(t.Abs(rel))
}

// EachText calls fn with the contents of every listed file that is readable
// text. Binary and oversized files are skipped. Iteration stops at the first
// error returned by fn or when ctx is done.
func (t *Target) EachText(ctx context.Context, files []string, fn func(rel string, data []byte) error) error {
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := t.ReadFile(rel)
		if err != nil {
			if errors.Is(err, fileutil.ErrBinaryFile) || errors.Is(err, fileutil.ErrFileTooLarge) {
				continue
			}
			return errors.Wrapf(err, "reading %s", rel)
		}
		if err := fn(rel, data); err != nil {
			return err
		}
	}
	return nil
}
