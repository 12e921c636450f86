package validators

import (
	"context"
	"regexp"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// maxToolLines bounds how many lines of linter output a result carries.
const maxToolLines = 50

// CodeCompliance checks shell scripts for a shebang and errexit, and runs
// shellcheck when it is installed.
type CodeCompliance struct {
	base
	cfg   config.ComplianceConfig
	tools tool.Runner
}

// NewCodeCompliance creates the code-compliance validator.
func NewCodeCompliance(cfg config.ComplianceConfig, tools tool.Runner) *CodeCompliance {
	return &CodeCompliance{
		base:  base{name: "code-compliance", category: "compliance"},
		cfg:   cfg,
		tools: tools,
	}
}

// errexit matches "set -e", "set -euo pipefail" and "set -o errexit".
var errexit = regexp.MustCompile(`^\s*set\s+(-[a-zA-Z]*e[a-zA-Z]*\b|.*-o\s+errexit\b)`)

// Validate implements validator.Validator.
func (c *CodeCompliance) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	scripts, err := shellScripts(ctx, target)
	if err != nil {
		return c.internalError(err)
	}
	if len(scripts) == 0 {
		return c.skip("no shell scripts found")
	}

	var f validator.Findings
	for _, s := range scripts {
		interp := scan.Shebang(s.data)
		if interp == "" {
			f.AddError(s.rel, "missing shebang")
		}
		if c.cfg.RequireErrexit && !hasErrexit(interp, s.data) {
			f.AddWarning(s.rel, "errexit not enabled (add set -euo pipefail)")
		}
	}

	if c.cfg.Shellcheck {
		c.shellcheck(ctx, target, scripts, &f)
	}

	return c.result(&f)
}

func (c *CodeCompliance) shellcheck(ctx context.Context, target *validator.Target, scripts []textFile, f *validator.Findings) {
	if _, err := c.tools.LookPath("shellcheck"); err != nil {
		if errors.Is(err, tool.ErrNotInstalled) {
			f.AddInfo("shellcheck", "not installed, lint skipped")
			return
		}
		f.AddError("shellcheck", "%v", err)
		return
	}

	args := append([]string{"--format=gcc"}, c.cfg.ShellcheckArgs...)
	for _, s := range scripts {
		args = append(args, s.rel)
	}

	res, err := c.tools.Run(ctx, target.Root, "shellcheck", args...)
	if err != nil {
		f.AddError("shellcheck", "%v", err)
		return
	}
	if res.ExitCode == 0 {
		return
	}

	lines := scan.Lines([]byte(strings.TrimSpace(res.Stdout)))
	if len(lines) == 0 {
		lines = scan.Lines([]byte(strings.TrimSpace(res.Stderr)))
	}
	if len(lines) == 0 {
		f.AddError("shellcheck", "exited with status %d", res.ExitCode)
		return
	}
	for i, line := range lines {
		if i == maxToolLines {
			f.AddError("shellcheck", "%d more finding(s) not shown", len(lines)-maxToolLines)
			break
		}
		f.AddError("shellcheck", "%s", line)
	}
}

func hasErrexit(interp string, data []byte) bool {
	fields := strings.Fields(interp)
	for i := 1; i < len(fields); i++ {
		arg := fields[i]
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && strings.Contains(arg, "e") {
			return true
		}
	}
	for _, line := range scan.Lines(data) {
		if errexit.MatchString(line) {
			return true
		}
	}
	return false
}

// textFile is a file of the target with its contents.
type textFile struct {
	rel  string
	data []byte
}

// shellScripts returns the shell scripts of the target, detected by
// extension or shebang.
func shellScripts(ctx context.Context, target *validator.Target) ([]textFile, error) {
	files, err := target.Files()
	if err != nil {
		return nil, err
	}
	var scripts []textFile
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		if scan.IsShellScript(rel, data) {
			scripts = append(scripts, textFile{rel: rel, data: data})
		}
		return nil
	})
	return scripts, err
}
