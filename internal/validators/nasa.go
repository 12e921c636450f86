package validators

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// NASA applies two Power-of-Ten style rules to shell and Python code:
// functions fit on a page, and loops have a fixed bound.
type NASA struct {
	base
	cfg config.NASAConfig
}

// NewNASA creates the nasa validator.
func NewNASA(cfg config.NASAConfig) *NASA {
	return &NASA{
		base: base{name: "nasa", category: "nasa"},
		cfg:  cfg,
	}
}

var (
	shellFunc  = regexp.MustCompile(`^\s*(?:function\s+([A-Za-z_][\w:.-]*)\s*(?:\(\s*\))?|([A-Za-z_][\w:.-]*)\s*\(\s*\))\s*(?:\{.*)?$`)
	pythonFunc = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(\w+)\s*\(`)
)

var shellLoops = []scan.Rule{
	{Name: "unbounded loop", Pattern: regexp.MustCompile(`^\s*(while|until)\s+(true|:|\[\s*1\s*\]|\(\(\s*1\s*\)\))\s*(;|$)`)},
	{Name: "unbounded loop", Pattern: regexp.MustCompile(`^\s*for\s*\(\(\s*;\s*;\s*\)\)`)},
}

var pythonLoops = []scan.Rule{
	{Name: "unbounded loop", Pattern: regexp.MustCompile(`^\s*while\s+(True|1)\s*:`)},
}

// function is a function definition spanning lines Start..End (1-based).
type function struct {
	Name  string
	Start int
	End   int
}

// Lines returns the number of lines the function spans.
func (f function) Lines() int {
	return f.End - f.Start + 1
}

// Validate implements validator.Validator.
func (n *NASA) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	files, err := target.Files()
	if err != nil {
		return n.internalError(err)
	}

	var f validator.Findings
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		var funcs []function
		var loops []scan.Hit
		switch {
		case scan.IsShellScript(rel, data):
			funcs = shellFunctions(scan.Lines(data))
			loops = scan.Grep(rel, data, shellLoops)
		case isPython(rel, data):
			funcs = pythonFunctions(scan.Lines(data))
			loops = scan.Grep(rel, data, pythonLoops)
		default:
			return nil
		}

		for _, fn := range funcs {
			if fn.Lines() > n.cfg.MaxFunctionLines {
				f.AddError(loc(rel, fn.Start), "function %s is %d lines (max %d)", fn.Name, fn.Lines(), n.cfg.MaxFunctionLines)
			}
		}
		for _, hit := range loops {
			f.AddWarning(loc(hit.Path, hit.Line), "%s: %s", hit.Rule, trim(hit.Text))
		}
		return nil
	})
	if err != nil {
		return n.internalError(err)
	}

	return n.result(&f)
}

func isPython(rel string, data []byte) bool {
	if path.Ext(rel) == ".py" {
		return true
	}
	return strings.Contains(scan.Shebang(data), "python")
}

// shellFunctions finds shell function definitions and measures them by brace
// balance. Unterminated definitions are ignored.
func shellFunctions(lines []string) []function {
	var funcs []function
	for i, line := range lines {
		m := shellFunc.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}

		depth, opened := 0, false
	body:
		for j := i; j < len(lines); j++ {
			for _, b := range braces(lines[j]) {
				if b == '{' {
					depth++
					opened = true
					continue
				}
				depth--
				if opened && depth == 0 {
					funcs = append(funcs, function{Name: name, Start: i + 1, End: j + 1})
					break body
				}
			}
		}
	}
	return funcs
}

// braces returns the braces of a shell line that are outside quotes and
// comments, in order.
func braces(line string) []byte {
	var out []byte
	var single, double bool
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case single:
			if c == '\'' {
				single = false
			}
		case c == '\\':
			i++
		case double:
			if c == '"' {
				double = false
			}
		case c == '\'':
			single = true
		case c == '"':
			double = true
		case c == '#' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t'):
			return out
		case c == '{' || c == '}':
			out = append(out, c)
		}
	}
	return out
}

// pythonFunctions finds def statements and measures them by indentation: a
// function ends at the last code line indented deeper than its def.
func pythonFunctions(lines []string) []function {
	var funcs []function
	for i, line := range lines {
		m := pythonFunc.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := indentWidth(m[1])
		end := i
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			if indentWidth(lines[j]) <= indent {
				break
			}
			end = j
		}
		funcs = append(funcs, function{Name: m[2], Start: i + 1, End: end + 1})
	}
	return funcs
}

func indentWidth(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 8 - n%8
		default:
			return n
		}
	}
	return n
}
