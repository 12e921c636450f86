package validators

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// FileOrganization reports editor and merge leftovers and shell scripts that
// live outside the script directories.
type FileOrganization struct {
	base
	cfg config.OrganizationConfig
}

// NewFileOrganization creates the file-organization validator.
func NewFileOrganization(cfg config.OrganizationConfig) *FileOrganization {
	return &FileOrganization{
		base: base{name: "file-organization", category: "organization"},
		cfg:  cfg,
	}
}

// Validate implements validator.Validator.
func (o *FileOrganization) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	files, err := target.Files()
	if err != nil {
		return o.internalError(err)
	}

	var f validator.Findings
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return o.internalError(err)
		}
		if scan.MatchAny(o.cfg.Artifacts, rel) {
			f.AddError(rel, "stray artifact, remove it before release")
			continue
		}
		switch path.Ext(rel) {
		case ".sh", ".bash":
			if !o.inScriptDir(rel) {
				f.AddWarning(rel, "shell script outside %s", strings.Join(o.cfg.ScriptDirs, ", "))
			}
		}
	}

	return o.result(&f)
}

// inScriptDir reports whether any directory of rel is a script directory.
func (o *FileOrganization) inScriptDir(rel string) bool {
	if len(o.cfg.ScriptDirs) == 0 {
		return true
	}
	dir := path.Dir(rel)
	if dir == "." {
		return false
	}
	for _, elem := range strings.Split(dir, "/") {
		if slices.Contains(o.cfg.ScriptDirs, elem) {
			return true
		}
	}
	return false
}
