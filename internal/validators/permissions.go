package validators

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// Permissions reports world-writable files and scripts that cannot be
// executed. Fix mode repairs both with chmod.
type Permissions struct {
	base
}

// NewPermissions creates the permissions validator.
func NewPermissions() *Permissions {
	return &Permissions{base: base{name: "permissions", category: "filesystem"}}
}

// permIssue is a file whose mode needs a change.
type permIssue struct {
	rel           string
	mode          fs.FileMode
	worldWritable bool
	notExecutable bool
}

// want returns the mode that resolves the issue. Execute bits are added
// where read bits are set, and for the owner at least.
func (p permIssue) want() fs.FileMode {
	m := p.mode.Perm()
	if p.worldWritable {
		m &^= 0o002
	}
	if p.notExecutable {
		m |= (m & 0o444) >> 2
		if m&0o111 == 0 {
			m |= 0o100
		}
	}
	return m
}

// Validate implements validator.Validator.
func (p *Permissions) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	if runtime.GOOS == "windows" {
		return p.skip("file modes are not checked on windows")
	}

	issues, err := p.scan(ctx, target)
	if err != nil {
		return p.internalError(err)
	}

	var f validator.Findings
	for _, is := range issues {
		if is.worldWritable {
			f.AddError(is.rel, "world-writable (mode %04o)", is.mode.Perm())
		}
		if is.notExecutable {
			f.AddWarning(is.rel, "has a shebang but is not executable (mode %04o)", is.mode.Perm())
		}
	}
	return p.result(&f)
}

// Fix implements validator.Fixer.
func (p *Permissions) Fix(ctx context.Context, target *validator.Target, env validator.FixEnv) ([]validator.FixResult, error) {
	if runtime.GOOS == "windows" {
		return nil, nil
	}

	issues, err := p.scan(ctx, target)
	if err != nil {
		return nil, err
	}

	results := make([]validator.FixResult, 0, len(issues))
	for _, is := range issues {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, p.fixIssue(target, env, is))
	}
	return results, nil
}

func (p *Permissions) fixIssue(target *validator.Target, env validator.FixEnv, is permIssue) validator.FixResult {
	result := validator.FixResult{Path: is.rel}
	abs := target.Abs(is.rel)

	unlock := env.Lock(abs)
	defer unlock()

	if err := env.Preserve(abs); err != nil {
		result.Err = errors.Wrap(err, "backing up")
		return result
	}

	want := is.want()
	if err := os.Chmod(abs, want); err != nil {
		result.Err = errors.Wrapf(err, "chmod %04o", want)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o (was %04o)", want, is.mode.Perm())
	return result
}

func (p *Permissions) scan(ctx context.Context, target *validator.Target) ([]permIssue, error) {
	files, err := target.Files()
	if err != nil {
		return nil, err
	}

	var issues []permIssue
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Lstat(target.Abs(rel))
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", rel)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		is := permIssue{rel: rel, mode: info.Mode()}
		is.worldWritable = info.Mode().Perm()&0o002 != 0
		if info.Mode().Perm()&0o111 == 0 {
			shebang, err := startsWithShebang(target.Abs(rel))
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", rel)
			}
			is.notExecutable = shebang
		}
		if is.worldWritable || is.notExecutable {
			issues = append(issues, is)
		}
	}
	return issues, nil
}

func startsWithShebang(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 2)
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return buf[0] == '#' && buf[1] == '!', nil
}
