package validators

import (
	"bytes"
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
	"github.com/thoreinstein/prerelease/pkg/frontmatter"
)

// Documentation checks that release documents are present and well formed.
type Documentation struct {
	base
	cfg config.DocumentationConfig
}

// NewDocumentation creates the documentation validator.
func NewDocumentation(cfg config.DocumentationConfig) *Documentation {
	return &Documentation{
		base: base{name: "documentation", category: "docs"},
		cfg:  cfg,
	}
}

var setextH1 = regexp.MustCompile(`^=+\s*$`)

// Validate implements validator.Validator.
func (d *Documentation) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	var f validator.Findings

	for _, doc := range d.cfg.Required {
		if !target.Exists(doc) {
			f.AddError(doc, "required document is missing")
		}
	}
	for _, doc := range d.cfg.Recommended {
		if !target.Exists(doc) {
			f.AddWarning(doc, "recommended document is missing")
		}
	}

	if target.Exists("README.md") {
		data, err := target.ReadFile("README.md")
		if err != nil {
			return d.internalError(err)
		}
		if !hasTopHeading(data) {
			f.AddWarning("README.md", "no top-level heading")
		}
	}

	docs, err := target.Match("*.md", "*.markdown")
	if err != nil {
		return d.internalError(err)
	}
	err = target.EachText(ctx, docs, func(rel string, data []byte) error {
		if !frontmatter.Has(data) {
			return nil
		}
		if _, _, err := frontmatter.Parse[map[string]any](bytes.NewReader(data)); err != nil {
			f.AddWarning(rel, "front matter: %v", err)
		}
		return nil
	})
	if err != nil {
		return d.internalError(err)
	}

	return d.result(&f)
}

// hasTopHeading reports whether a markdown document has an ATX ("# Title")
// or setext ("Title\n===") level one heading outside code fences.
func hasTopHeading(data []byte) bool {
	if _, body, err := frontmatter.Split(data); err == nil {
		data = body
	}

	inFence := false
	prev := ""
	for _, line := range scan.Lines(data) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			prev = ""
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return true
		}
		if prev != "" && setextH1.MatchString(line) {
			return true
		}
		prev = trimmed
	}
	return false
}

// isMarkdown reports whether rel has a markdown extension.
func isMarkdown(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
