package validators

import (
	"strconv"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/tool"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// DefaultRegistry returns a registry holding every built-in validator
// configured from cfg. tools runs external programs; pass tool.NewExec()
// outside of tests.
func DefaultRegistry(cfg *config.Config, tools tool.Runner) *validator.Registry {
	reg := validator.NewRegistry()
	reg.MustRegister(
		NewDocumentation(cfg.Documentation),
		NewSecurity(cfg.Security),
		NewCodeCompliance(cfg.Compliance, tools),
		NewFileOrganization(cfg.Organization),
		NewDependencies(cfg.Dependencies, tools),
		NewNASA(cfg.NASA),
		NewDRY(cfg.DRY),
		NewConfigSyntax(),
		NewPermissions(),
		NewWhitespace(),
		NewGitHygiene(),
	)
	return reg
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
