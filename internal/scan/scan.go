// Package scan walks a target repository and matches line-oriented patterns
// against file contents.
//
// Everything here is a pure function over paths and bytes; validators combine
// these helpers with their own rule sets.
package scan

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{
	".git",
	".hg",
	".svn",
	".vagrant",
	".venv",
	".tox",
	".terraform",
	"__pycache__",
	"node_modules",
	"vendor",
}

// Files walks root and returns every regular file as a slash-separated path
// relative to root, sorted. Directories named in DefaultSkipDirs are skipped,
// as is anything matched by an exclude pattern (see Match).
func Files(ctx context.Context, root string, exclude []string) ([]string, error) {
	skip := make(map[string]bool, len(DefaultSkipDirs))
	for _, d := range DefaultSkipDirs {
		skip[d] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if skip[d.Name()] || MatchAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || MatchAny(exclude, rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	slices.Sort(files)
	return files, nil
}

// Match reports whether a relative slash path matches pattern. Patterns
// containing a slash are matched against the whole path (a trailing "/"
// matches everything below that directory); other patterns are matched
// against each path element, so "*.bak" and "build" both work anywhere.
func Match(pattern, rel string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	if pattern == "" {
		return false
	}

	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		return rel == dir || strings.HasPrefix(rel, dir+"/")
	}

	if strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, rel)
		return ok || strings.HasPrefix(rel, pattern+"/")
	}

	for _, elem := range strings.Split(rel, "/") {
		if ok, _ := path.Match(pattern, elem); ok {
			return true
		}
	}
	return false
}

// MatchAny reports whether rel matches any of the patterns.
func MatchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if Match(p, rel) {
			return true
		}
	}
	return false
}

// Filter returns the files matching at least one pattern, preserving order.
func Filter(files []string, patterns ...string) []string {
	var out []string
	for _, f := range files {
		if MatchAny(patterns, f) {
			out = append(out, f)
		}
	}
	return out
}

// Lines splits content into lines without their terminators. A trailing
// newline does not produce an empty final line; carriage returns before the
// newline are dropped.
func Lines(data []byte) []string {
	s := string(data)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Rule is a named line pattern. Lines matching Skip are ignored even when
// Pattern matches.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Skip    *regexp.Regexp
}

// Hit is a single rule match in a file.
type Hit struct {
	Rule string
	Path string
	Line int
	Text string
}

// String formats the hit as "path:line: text".
func (h Hit) String() string {
	return h.Path + ":" + strconv.Itoa(h.Line) + ": " + strings.TrimSpace(h.Text)
}

// Grep applies rules to every line of data. Hits are ordered by line, then by
// rule order.
func Grep(rel string, data []byte, rules []Rule) []Hit {
	var hits []Hit
	for i, line := range Lines(data) {
		for _, r := range rules {
			if !r.Pattern.MatchString(line) {
				continue
			}
			if r.Skip != nil && r.Skip.MatchString(line) {
				continue
			}
			hits = append(hits, Hit{Rule: r.Name, Path: rel, Line: i + 1, Text: line})
		}
	}
	return hits
}

// Shebang returns the interpreter line of a script without the "#!" prefix,
// or "" when data does not start with one.
func Shebang(data []byte) string {
	if len(data) < 2 || data[0] != '#' || data[1] != '!' {
		return ""
	}
	line, _, _ := strings.Cut(string(data[2:]), "\n")
	return strings.TrimSpace(strings.TrimSuffix(line, "\r"))
}

// IsShellScript reports whether a file is a shell script by extension or
// shebang.
func IsShellScript(rel string, data []byte) bool {
	switch path.Ext(rel) {
	case ".sh", ".bash":
		return true
	}
	interp := Shebang(data)
	if interp == "" {
		return false
	}
	fields := strings.Fields(interp)
	bin := path.Base(fields[0])
	if bin == "env" && len(fields) > 1 {
		bin = path.Base(fields[1])
	}
	switch bin {
	case "sh", "bash", "dash", "ksh", "zsh":
		return true
	}
	return false
}

// IsComment reports whether a trimmed line is a comment in shell, Python or
// YAML syntax. Shebang lines count as comments.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
