package validators

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
	"github.com/thoreinstein/prerelease/pkg/fileutil"
)

// Whitespace reports trailing whitespace, CRLF line endings and a missing
// final newline. Fix mode rewrites the affected files.
type Whitespace struct {
	base
}

// NewWhitespace creates the whitespace validator.
func NewWhitespace() *Whitespace {
	return &Whitespace{base: base{name: "whitespace", category: "style"}}
}

// wsReport describes the whitespace problems of one file.
type wsReport struct {
	trailing     []int
	crlf         bool
	finalNewline bool
}

func (r wsReport) clean() bool {
	return len(r.trailing) == 0 && !r.crlf && !r.finalNewline
}

// crlfAllowed reports whether rel is a Windows script that needs CRLF.
func crlfAllowed(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".bat", ".cmd", ".ps1":
		return true
	}
	return false
}

// inspectWhitespace finds the problems of a file. Markdown keeps trailing
// spaces, which encode hard line breaks.
func inspectWhitespace(rel string, data []byte) wsReport {
	var r wsReport
	if len(data) == 0 {
		return r
	}
	r.crlf = !crlfAllowed(rel) && bytes.Contains(data, []byte("\r\n"))
	r.finalNewline = data[len(data)-1] != '\n'
	if isMarkdown(rel) {
		return r
	}
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
			r.trailing = append(r.trailing, i+1)
		}
	}
	return r
}

// cleanWhitespace returns data with the problems inspectWhitespace reports
// removed.
func cleanWhitespace(rel string, data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	out := bytes.Clone(data)
	if !crlfAllowed(rel) {
		out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	}
	if !isMarkdown(rel) {
		lines := bytes.Split(out, []byte("\n"))
		for i, line := range lines {
			cr := bytes.HasSuffix(line, []byte("\r"))
			line = bytes.TrimRight(bytes.TrimSuffix(line, []byte("\r")), " \t")
			if cr {
				line = append(line, '\r')
			}
			lines[i] = line
		}
		out = bytes.Join(lines, []byte("\n"))
	}
	if out[len(out)-1] != '\n' {
		if crlfAllowed(rel) {
			out = append(out, '\r')
		}
		out = append(out, '\n')
	}
	return out
}

func (r wsReport) describe() []string {
	var msgs []string
	if n := len(r.trailing); n > 0 {
		msgs = append(msgs, fmt.Sprintf("trailing whitespace on %d line(s), first at line %d", n, r.trailing[0]))
	}
	if r.crlf {
		msgs = append(msgs, "CRLF line endings")
	}
	if r.finalNewline {
		msgs = append(msgs, "missing final newline")
	}
	return msgs
}

// Validate implements validator.Validator.
func (w *Whitespace) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	files, err := target.Files()
	if err != nil {
		return w.internalError(err)
	}

	var f validator.Findings
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		for _, msg := range inspectWhitespace(rel, data).describe() {
			f.AddWarning(rel, "%s", msg)
		}
		return nil
	})
	if err != nil {
		return w.internalError(err)
	}
	return w.result(&f)
}

// Fix implements validator.Fixer.
func (w *Whitespace) Fix(ctx context.Context, target *validator.Target, env validator.FixEnv) ([]validator.FixResult, error) {
	files, err := target.Files()
	if err != nil {
		return nil, err
	}

	var dirty []string
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		if !inspectWhitespace(rel, data).clean() {
			dirty = append(dirty, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]validator.FixResult, 0, len(dirty))
	for _, rel := range dirty {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if r, ok := w.rewrite(target, env, rel); ok {
			results = append(results, r)
		}
	}
	return results, nil
}

// rewrite cleans one file under its lock. The file is read again after
// locking; ok is false when another fixer already left it clean.
func (w *Whitespace) rewrite(target *validator.Target, env validator.FixEnv, rel string) (validator.FixResult, bool) {
	result := validator.FixResult{Path: rel}
	abs := target.Abs(rel)

	unlock := env.Lock(abs)
	defer unlock()

	data, err := target.ReadFile(rel)
	if err != nil {
		result.Err = err
		return result, true
	}
	report := inspectWhitespace(rel, data)
	if report.clean() {
		return result, false
	}

	info, err := os.Stat(abs)
	if err != nil {
		result.Err = err
		return result, true
	}
	if err := env.Preserve(abs); err != nil {
		result.Err = errors.Wrap(err, "backing up")
		return result, true
	}
	if err := fileutil.AtomicWriteFile(abs, cleanWhitespace(rel, data), info.Mode().Perm()); err != nil {
		result.Err = err
		return result, true
	}

	result.Fixed = true
	result.Description = strings.Join(report.describe(), ", ")
	return result, true
}
