package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

func TestCodeCompliance_NoScripts(t *testing.T) {
	target := newTarget(t, map[string]string{"README.md": "# x\n", "site.yml": "---\n"})
	r := validate(t, NewCodeCompliance(config.ComplianceConfig{}, new(mockTools)), target)

	assert.Equal(t, validator.StatusSkip, r.Status)
	assert.Equal(t, []string{"no shell scripts found"}, r.Messages)
}

func TestCodeCompliance_Scripts(t *testing.T) {
	cfg := config.ComplianceConfig{RequireErrexit: true}

	tests := []struct {
		name     string
		files    map[string]string
		status   validator.Status
		messages []string
	}{
		{
			name:   "compliant",
			files:  map[string]string{"scripts/deploy.sh": "#!/usr/bin/env bash\nset -euo pipefail\necho ok\n"},
			status: validator.StatusPass,
		},
		{
			name:   "errexit in shebang",
			files:  map[string]string{"scripts/deploy.sh": "#!/bin/bash -e\necho ok\n"},
			status: validator.StatusPass,
		},
		{
			name:   "set -o errexit",
			files:  map[string]string{"bin/run": "#!/bin/sh\nset -o nounset -o errexit\n"},
			status: validator.StatusPass,
		},
		{
			name:     "missing errexit",
			files:    map[string]string{"bin/run": "#!/bin/sh\necho ok\n"},
			status:   validator.StatusWarn,
			messages: []string{"warning: bin/run: errexit not enabled (add set -euo pipefail)"},
		},
		{
			name:   "missing shebang",
			files:  map[string]string{"scripts/deploy.sh": "set -e\necho ok\n"},
			status: validator.StatusFail,
			messages: []string{
				"error: scripts/deploy.sh: missing shebang",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validate(t, NewCodeCompliance(cfg, new(mockTools)), newTarget(t, tt.files))
			assert.Equal(t, tt.status, r.Status, "messages: %v", r.Messages)
			if tt.messages != nil {
				assert.Equal(t, tt.messages, r.Messages)
			}
		})
	}
}

func TestCodeCompliance_Shellcheck(t *testing.T) {
	cfg := config.ComplianceConfig{Shellcheck: true, ShellcheckArgs: []string{"--severity=warning"}}
	files := map[string]string{
		"scripts/a.sh": "#!/bin/bash\nset -e\necho $1\n",
		"scripts/b.sh": "#!/bin/bash\nset -e\n",
	}
	args := []string{"--format=gcc", "--severity=warning", "scripts/a.sh", "scripts/b.sh"}

	t.Run("not installed", func(t *testing.T) {
		tools := new(mockTools)
		tools.On("LookPath", "shellcheck").Return("", errors.Mark(errors.New("exec: not found"), tool.ErrNotInstalled))

		r := validate(t, NewCodeCompliance(cfg, tools), newTarget(t, files))
		assert.Equal(t, validator.StatusPass, r.Status)
		assert.Equal(t, []string{"info: shellcheck: not installed, lint skipped"}, r.Messages)
		tools.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("clean", func(t *testing.T) {
		target := newTarget(t, files)
		tools := new(mockTools)
		tools.On("LookPath", "shellcheck").Return("/usr/bin/shellcheck", nil)
		tools.On("Run", mock.Anything, target.Root, "shellcheck", args).Return(tool.Result{}, nil)

		r := validate(t, NewCodeCompliance(cfg, tools), target)
		assert.Equal(t, validator.StatusPass, r.Status)
		tools.AssertExpectations(t)
	})

	t.Run("findings", func(t *testing.T) {
		target := newTarget(t, files)
		tools := new(mockTools)
		tools.On("LookPath", "shellcheck").Return("/usr/bin/shellcheck", nil)
		tools.On("Run", mock.Anything, target.Root, "shellcheck", args).Return(tool.Result{
			ExitCode: 1,
			Stdout:   "scripts/a.sh:3:6: note: Double quote to prevent globbing and word splitting. [SC2086]\n",
		}, nil)

		r := validate(t, NewCodeCompliance(cfg, tools), target)
		assert.Equal(t, validator.StatusFail, r.Status)
		assert.Equal(t, []string{
			"error: shellcheck: scripts/a.sh:3:6: note: Double quote to prevent globbing and word splitting. [SC2086]",
		}, r.Messages)
	})

	t.Run("exit without output", func(t *testing.T) {
		target := newTarget(t, files)
		tools := new(mockTools)
		tools.On("LookPath", "shellcheck").Return("/usr/bin/shellcheck", nil)
		tools.On("Run", mock.Anything, target.Root, "shellcheck", args).Return(tool.Result{ExitCode: 3}, nil)

		r := validate(t, NewCodeCompliance(cfg, tools), target)
		assert.Equal(t, []string{"error: shellcheck: exited with status 3"}, r.Messages)
	})

	t.Run("run error", func(t *testing.T) {
		target := newTarget(t, files)
		tools := new(mockTools)
		tools.On("LookPath", "shellcheck").Return("/usr/bin/shellcheck", nil)
		tools.On("Run", mock.Anything, target.Root, "shellcheck", args).Return(tool.Result{}, errors.New("killed"))

		r := validate(t, NewCodeCompliance(cfg, tools), target)
		assert.Equal(t, validator.StatusFail, r.Status)
		assert.Equal(t, []string{"error: shellcheck: killed"}, r.Messages)
	})
}

func TestHasErrexit(t *testing.T) {
	tests := []struct {
		script string
		want   bool
	}{
		{"#!/bin/bash\nset -e\n", true},
		{"#!/bin/bash\nset -euo pipefail\n", true},
		{"#!/bin/bash\n  set -Eeu\n", true},
		{"#!/bin/bash\nset -o errexit\n", true},
		{"#!/bin/bash -e\n", true},
		{"#!/bin/bash\nset -u\n", false},
		{"#!/bin/bash\n# set -e\n", false},
		{"#!/bin/bash\necho set -e\n", false},
		{"#!/usr/bin/env bash\n", false},
	}

	for _, tt := range tests {
		data := []byte(tt.script)
		assert.Equal(t, tt.want, hasErrexit(scan.Shebang(data), data), tt.script)
	}
}
