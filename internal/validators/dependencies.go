package validators

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// Dependencies checks that the commands, files and Makefile targets a
// release build needs are available.
type Dependencies struct {
	base
	cfg   config.DependenciesConfig
	tools tool.Runner
}

// NewDependencies creates the dependencies validator.
func NewDependencies(cfg config.DependenciesConfig, tools tool.Runner) *Dependencies {
	return &Dependencies{
		base:  base{name: "dependencies", category: "dependencies"},
		cfg:   cfg,
		tools: tools,
	}
}

// makefileNames are tried in the order GNU make reads them.
var makefileNames = []string{"GNUmakefile", "makefile", "Makefile"}

// makeRule matches a rule line "target [target...]: prerequisites".
var makeRule = regexp.MustCompile(`^([A-Za-z0-9_./%-]+(?:\s+[A-Za-z0-9_./%-]+)*)\s*::?(?:[^=]|$)`)

var makeAssign = regexp.MustCompile(`^[A-Za-z0-9_.-]+\s*(:{1,3}=|[?+!]?=)`)

// Validate implements validator.Validator.
func (d *Dependencies) Validate(_ context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	if len(d.cfg.Commands) == 0 && len(d.cfg.Files) == 0 && len(d.cfg.MakeTargets) == 0 {
		return d.skip("no required commands, files or make targets configured")
	}

	var f validator.Findings
	for _, cmd := range d.cfg.Commands {
		if _, err := d.tools.LookPath(cmd); err != nil {
			f.AddError(cmd, "required command not found on PATH")
		}
	}
	for _, file := range d.cfg.Files {
		if !target.Exists(file) {
			f.AddError(file, "required file is missing")
		}
	}

	if len(d.cfg.MakeTargets) > 0 {
		name, data, err := readMakefile(target)
		if err != nil {
			return d.internalError(err)
		}
		if name == "" {
			f.AddError("Makefile", "missing, required targets: %s", strings.Join(d.cfg.MakeTargets, ", "))
		} else {
			have := MakeTargets(data)
			for _, t := range d.cfg.MakeTargets {
				if !slices.Contains(have, t) {
					f.AddError(name, "required target %q is not defined", t)
				}
			}
		}
	}

	return d.result(&f)
}

func readMakefile(target *validator.Target) (string, []byte, error) {
	for _, name := range makefileNames {
		if !target.Exists(name) {
			continue
		}
		data, err := target.ReadFile(name)
		if err != nil {
			return "", nil, err
		}
		return name, data, nil
	}
	return "", nil, nil
}

// MakeTargets returns the explicit targets defined in a Makefile, in order of
// first definition. Pattern rules and special targets (".PHONY") are left
// out.
func MakeTargets(data []byte) []string {
	var targets []string
	for _, line := range scan.Lines(data) {
		if line == "" || line[0] == '\t' || line[0] == '#' || makeAssign.MatchString(line) {
			continue
		}
		m := makeRule.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, t := range strings.Fields(m[1]) {
			if strings.HasPrefix(t, ".") || strings.Contains(t, "%") {
				continue
			}
			if !slices.Contains(targets, t) {
				targets = append(targets, t)
			}
		}
	}
	return targets
}
