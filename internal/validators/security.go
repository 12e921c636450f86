package validators

import (
	"context"
	"regexp"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/redact"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// Security scans for hardcoded secrets and insecure shell or Ansible
// patterns. Secret values are masked in messages.
type Security struct {
	base
	cfg config.SecurityConfig
}

// NewSecurity creates the security validator.
func NewSecurity(cfg config.SecurityConfig) *Security {
	return &Security{
		base: base{name: "security", category: "security"},
		cfg:  cfg,
	}
}

// placeholder matches assignments whose value is a variable reference,
// template expression or an obvious dummy.
var placeholder = regexp.MustCompile(`(?i)[:=]\s*["']?(\$|\{\{|<|%\(|[A-Za-z_][\w.]*\(|vault_|changeme|example|dummy|redacted|x{4,}|\*{3,}|none\b|null\b|true\b|false\b|""|'')`)

var commentLine = regexp.MustCompile(`^\s*(#|//|;)`)

// secretRules report FAIL.
var secretRules = []scan.Rule{
	{
		Name:    "hardcoded credential",
		Pattern: regexp.MustCompile(`(?i)\b[a-z0-9_]*(password|passwd|secret|token|api[_-]?key|access[_-]?key)[a-z0-9_]*["']?\s*[:=]\s*["']?[^\s"'#]{4,}`),
		Skip:    placeholder,
	},
	{
		Name:    "AWS access key",
		Pattern: regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`),
	},
	{
		Name:    "private key",
		Pattern: regexp.MustCompile(`-----BEGIN ([A-Z]+ )?PRIVATE KEY-----`),
	},
	{
		Name:    "API token",
		Pattern: regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{20,}|glpat-[A-Za-z0-9_-]{20,}|xox[abp]-[A-Za-z0-9-]{10,})`),
	},
}

// insecureRules report WARN. Commented-out lines are ignored.
var insecureRules = []scan.Rule{
	{
		Name:    "remote script piped to shell",
		Pattern: regexp.MustCompile(`\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?(ba|z|da)?sh\b`),
		Skip:    commentLine,
	},
	{
		Name:    "world-writable chmod",
		Pattern: regexp.MustCompile(`\bchmod\s+(-R\s+)?0?777\b`),
		Skip:    commentLine,
	},
	{
		Name:    "TLS verification disabled",
		Pattern: regexp.MustCompile(`\bvalidate_certs\s*[:=]\s*["']?(no|false)\b`),
		Skip:    commentLine,
	},
	{
		Name:    "host key checking disabled",
		Pattern: regexp.MustCompile(`StrictHostKeyChecking\s*[= ]\s*["']?no\b`),
		Skip:    commentLine,
	},
}

// Validate implements validator.Validator.
func (s *Security) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	allow, err := compileAll(s.cfg.Allow)
	if err != nil {
		return s.internalError(err)
	}

	files, err := target.Files()
	if err != nil {
		return s.internalError(err)
	}

	var f validator.Findings
	var scanned []string
	for _, rel := range files {
		if !scan.MatchAny(s.cfg.SkipFiles, rel) {
			scanned = append(scanned, rel)
		}
	}

	err = target.EachText(ctx, scanned, func(rel string, data []byte) error {
		for _, hit := range scan.Grep(rel, data, secretRules) {
			if allowed(allow, hit.Text) {
				continue
			}
			f.AddError(loc(hit.Path, hit.Line), "%s: %s", hit.Rule, redact.Line(trim(hit.Text)))
		}
		for _, hit := range scan.Grep(rel, data, insecureRules) {
			if allowed(allow, hit.Text) {
				continue
			}
			f.AddWarning(loc(hit.Path, hit.Line), "%s: %s", hit.Rule, trim(hit.Text))
		}
		return nil
	})
	if err != nil {
		return s.internalError(err)
	}

	return s.result(&f)
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "security.allow pattern %q", p)
		}
		res = append(res, re)
	}
	return res, nil
}

func allowed(allow []*regexp.Regexp, line string) bool {
	for _, re := range allow {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
