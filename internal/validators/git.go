package validators

import (
	"context"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/git"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// GitHygiene inspects what the repository tracks: secret-looking files must
// never be committed, and tracked files should not match .gitignore.
type GitHygiene struct {
	base
}

// NewGitHygiene creates the git-hygiene validator.
func NewGitHygiene() *GitHygiene {
	return &GitHygiene{base: base{name: "git-hygiene", category: "git"}}
}

// secretFiles name files that usually hold credentials.
var secretFiles = []string{
	".env", ".env.*", "*.pem", "*.key", "*.p12", "*.pfx", "*.jks",
	"id_rsa*", "id_dsa*", "id_ecdsa*", "id_ed25519*", ".vault_pass*", "*.kdbx",
}

// secretFileExamples are templates that are safe to track.
var secretFileExamples = []string{
	"*.pub", ".env.example", ".env.sample", ".env.template", ".env.dist",
}

// Validate implements validator.Validator.
func (g *GitHygiene) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	repo, err := git.Open(target.Root)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return g.skip("not a git repository")
		}
		return g.internalError(err)
	}

	tracked, err := repo.TrackedFiles()
	if err != nil {
		return g.internalError(err)
	}
	files := tracked[:0:0]
	for _, rel := range tracked {
		if !scan.MatchAny(target.Exclude, rel) {
			files = append(files, rel)
		}
	}

	var f validator.Findings
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return g.internalError(err)
		}
		if scan.MatchAny(secretFiles, rel) && !scan.MatchAny(secretFileExamples, rel) {
			f.AddError(rel, "secret-looking file is tracked by git")
		}
	}

	ignored, err := repo.Ignored(files)
	if err != nil {
		return g.internalError(err)
	}
	for _, rel := range ignored {
		f.AddWarning(rel, "tracked but matched by .gitignore")
	}

	return g.result(&f)
}
