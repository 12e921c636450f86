package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

const makefile = `SHELL := /bin/bash
VERSION ?= dev

.PHONY: lint test release

lint:
	shellcheck scripts/*.sh

test: lint
	./scripts/test.sh

%.tar.gz: %
	tar czf $@ $<

build dist: test
	./scripts/build.sh
`

func TestDependencies_NothingConfigured(t *testing.T) {
	r := validate(t, NewDependencies(config.DependenciesConfig{}, new(mockTools)), newTarget(t, nil))
	assert.Equal(t, validator.StatusSkip, r.Status)
}

func TestDependencies_Commands(t *testing.T) {
	tools := new(mockTools)
	tools.On("LookPath", "ansible-playbook").Return("/usr/bin/ansible-playbook", nil)
	tools.On("LookPath", "vagrant").Return("", errors.Mark(errors.New("not found"), tool.ErrNotInstalled))

	cfg := config.DependenciesConfig{Commands: []string{"ansible-playbook", "vagrant"}}
	r := validate(t, NewDependencies(cfg, tools), newTarget(t, nil))

	assert.Equal(t, validator.StatusFail, r.Status)
	assert.Equal(t, []string{"error: vagrant: required command not found on PATH"}, r.Messages)
	tools.AssertExpectations(t)
}

func TestDependencies_FilesAndTargets(t *testing.T) {
	cfg := config.DependenciesConfig{
		Files:       []string{"requirements.yml", "Vagrantfile"},
		MakeTargets: []string{"lint", "release", "dist"},
	}

	t.Run("makefile present", func(t *testing.T) {
		target := newTarget(t, map[string]string{
			"Makefile":         makefile,
			"requirements.yml": "---\n",
		})
		r := validate(t, NewDependencies(cfg, new(mockTools)), target)

		assert.Equal(t, validator.StatusFail, r.Status)
		assert.Equal(t, []string{
			"error: Vagrantfile: required file is missing",
			`error: Makefile: required target "release" is not defined`,
		}, r.Messages)
	})

	t.Run("makefile missing", func(t *testing.T) {
		target := newTarget(t, map[string]string{"requirements.yml": "---\n", "Vagrantfile": "x"})
		r := validate(t, NewDependencies(cfg, new(mockTools)), target)

		assert.Equal(t, []string{"error: Makefile: missing, required targets: lint, release, dist"}, r.Messages)
	})

	t.Run("satisfied", func(t *testing.T) {
		target := newTarget(t, map[string]string{
			"Makefile":         makefile + "\nrelease: dist\n",
			"requirements.yml": "---\n",
			"Vagrantfile":      "x",
		})
		r := validate(t, NewDependencies(cfg, new(mockTools)), target)
		assert.Equal(t, validator.StatusPass, r.Status, "messages: %v", r.Messages)
	})
}

func TestMakeTargets(t *testing.T) {
	assert.Equal(t, []string{"lint", "test", "build", "dist"}, MakeTargets([]byte(makefile)))
	assert.Empty(t, MakeTargets(nil))
	assert.Equal(t, []string{"all"}, MakeTargets([]byte("all::\n\techo\nall:: more\n")))
}
