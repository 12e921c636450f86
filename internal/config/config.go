// Package config provides configuration management for pre-release-check
// using Viper.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/paths"
)

// EnvPrefix is the prefix of environment variable overrides (PRC_TIMEOUT,
// PRC_NASA_MAX_FUNCTION_LINES, ...).
const EnvPrefix = "PRC"

// GlobalConfigName is the file name inside the per-user config directory.
const GlobalConfigName = "config.yaml"

// Config represents the top-level configuration structure.
type Config struct {
	Version     int           `mapstructure:"version" yaml:"version" validate:"gte=1,lte=1"`
	Validators  []string      `mapstructure:"validators" yaml:"validators" validate:"unique,dive,validator_name"`
	Disabled    []string      `mapstructure:"disabled" yaml:"disabled" validate:"unique,dive,validator_name"`
	Exclude     []string      `mapstructure:"exclude" yaml:"exclude"`
	Strict      bool          `mapstructure:"strict" yaml:"strict"`
	Parallel    bool          `mapstructure:"parallel" yaml:"parallel"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	RunTimeout  time.Duration `mapstructure:"run_timeout" yaml:"run_timeout" validate:"gte=0"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1,lte=256"`
	Format      string        `mapstructure:"format" yaml:"format" validate:"report_format"`
	Output      string        `mapstructure:"output" yaml:"output"`

	Documentation DocumentationConfig `mapstructure:"documentation" yaml:"documentation"`
	Security      SecurityConfig      `mapstructure:"security" yaml:"security"`
	Compliance    ComplianceConfig    `mapstructure:"compliance" yaml:"compliance"`
	Organization  OrganizationConfig  `mapstructure:"organization" yaml:"organization"`
	Dependencies  DependenciesConfig  `mapstructure:"dependencies" yaml:"dependencies"`
	NASA          NASAConfig          `mapstructure:"nasa" yaml:"nasa"`
	DRY           DRYConfig           `mapstructure:"dry" yaml:"dry"`
}

// DocumentationConfig lists the documents a release must ship.
type DocumentationConfig struct {
	Required    []string `mapstructure:"required" yaml:"required"`
	Recommended []string `mapstructure:"recommended" yaml:"recommended"`
}

// SecurityConfig tunes secret and insecure pattern detection.
type SecurityConfig struct {
	// Allow holds regular expressions; matching lines are never reported.
	Allow []string `mapstructure:"allow" yaml:"allow"`
	// SkipFiles holds path patterns excluded from security scanning only.
	SkipFiles []string `mapstructure:"skip_files" yaml:"skip_files"`
}

// ComplianceConfig tunes shell script checks.
type ComplianceConfig struct {
	Shellcheck     bool     `mapstructure:"shellcheck" yaml:"shellcheck"`
	ShellcheckArgs []string `mapstructure:"shellcheck_args" yaml:"shellcheck_args"`
	RequireErrexit bool     `mapstructure:"require_errexit" yaml:"require_errexit"`
}

// OrganizationConfig describes the expected repository layout.
type OrganizationConfig struct {
	ScriptDirs []string `mapstructure:"script_dirs" yaml:"script_dirs"`
	Artifacts  []string `mapstructure:"artifacts" yaml:"artifacts"`
}

// DependenciesConfig lists what must be available to build a release.
type DependenciesConfig struct {
	Commands    []string `mapstructure:"commands" yaml:"commands"`
	Files       []string `mapstructure:"files" yaml:"files"`
	MakeTargets []string `mapstructure:"make_targets" yaml:"make_targets"`
}

// NASAConfig holds limits of the NASA-inspired coding rules.
type NASAConfig struct {
	MaxFunctionLines int `mapstructure:"max_function_lines" yaml:"max_function_lines" validate:"gte=1"`
}

// DRYConfig tunes duplicate block detection.
type DRYConfig struct {
	MinLines int      `mapstructure:"min_lines" yaml:"min_lines" validate:"gte=2"`
	Include  []string `mapstructure:"include" yaml:"include"`
}

// defaults are applied through viper so that every key is also reachable
// through environment variables.
var defaults = map[string]any{
	"version":     1,
	"validators":  []string{},
	"disabled":    []string{},
	"exclude":     []string{},
	"strict":      false,
	"parallel":    false,
	"timeout":     300 * time.Second,
	"run_timeout": time.Duration(0),
	"concurrency": runtime.NumCPU(),
	"format":      "text",
	"output":      "",

	"documentation.required":    []string{"README.md"},
	"documentation.recommended": []string{"CHANGELOG.md", "LICENSE", "CONTRIBUTING.md"},

	"security.allow":      []string{},
	"security.skip_files": []string{},

	"compliance.shellcheck":      true,
	"compliance.shellcheck_args": []string{"--severity=warning"},
	"compliance.require_errexit": true,

	"organization.script_dirs": []string{"scripts", "bin", "hack", "tools", "roles", ".github"},
	"organization.artifacts":   []string{"*.bak", "*.orig", "*.rej", "*.swp", "*.swo", "*~", ".DS_Store", "Thumbs.db"},

	"dependencies.commands":     []string{},
	"dependencies.files":        []string{},
	"dependencies.make_targets": []string{},

	"nasa.max_function_lines": 60,

	"dry.min_lines": 6,
	"dry.include":   []string{"*.sh", "*.bash", "*.py", "*.yml", "*.yaml"},
}

// Init resets Viper and installs defaults and environment overrides.
// Call this once at application startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// Locate returns the config file used for target: the repository's
// .pre-release-check.yaml, else the per-user config.yaml. It returns "" when
// neither exists.
func Locate(targetRoot string) string {
	candidates := []string{
		filepath.Join(targetRoot, paths.ConfigFileName),
		filepath.Join(paths.ConfigDir(), GlobalConfigName),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Load reads and validates the configuration. An explicit path must exist;
// otherwise the file found by Locate is used, or defaults when there is none.
func Load(targetRoot, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Locate(targetRoot)
	}

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
			}
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := Validate(&cfg, nil); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the path of the config file read by the last Load.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
