// Package git reads repository state (index and ignore rules) with go-git,
// without shelling out to a git binary.
package git

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ErrNotRepository is returned by Open when root is not a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repo is an opened work tree.
type Repo struct {
	root string
	repo *git.Repository
}

// Open opens the repository whose work tree is rooted at root. Parent
// directories are not searched.
func Open(root string) (*Repo, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(ErrNotRepository, "%s", root)
		}
		return nil, errors.Wrapf(err, "opening git repository %s", root)
	}
	return &Repo{root: root, repo: repo}, nil
}

// Root returns the work tree path.
func (r *Repo) Root() string {
	return r.root
}

// TrackedFiles returns the slash-separated paths recorded in the index,
// sorted.
func (r *Repo) TrackedFiles() ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, "reading index")
	}

	files := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		files = append(files, e.Name)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Ignored returns the subset of files matched by the repository's ignore
// rules (.gitignore files and .git/info/exclude).
func (r *Repo) Ignored(files []string) ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "opening worktree")
	}

	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading .gitignore")
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	matcher := gitignore.NewMatcher(patterns)
	var ignored []string
	for _, f := range files {
		if matcher.Match(strings.Split(f, "/"), false) {
			ignored = append(ignored, f)
		}
	}
	return ignored, nil
}
