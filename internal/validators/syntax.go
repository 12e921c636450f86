package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// ConfigSyntax parses YAML, JSON and TOML files and reports syntax errors
// with their position.
type ConfigSyntax struct {
	base
}

// NewConfigSyntax creates the config-syntax validator.
func NewConfigSyntax() *ConfigSyntax {
	return &ConfigSyntax{base: base{name: "config-syntax", category: "config"}}
}

// vaultHeader marks files encrypted with ansible-vault, which are not YAML.
var vaultHeader = []byte("$ANSIBLE_VAULT;")

var yamlLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// Validate implements validator.Validator.
func (c *ConfigSyntax) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	files, err := target.Match("*.yml", "*.yaml", "*.json", "*.toml")
	if err != nil {
		return c.internalError(err)
	}
	if len(files) == 0 {
		return c.skip("no YAML, JSON or TOML files found")
	}

	var f validator.Findings
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if msg := checkSyntax(rel, data); msg != "" {
			f.AddError(rel, "%s", msg)
		}
		return nil
	})
	if err != nil {
		return c.internalError(err)
	}

	return c.result(&f)
}

// checkSyntax returns a description of the first syntax error in data, or ""
// when it parses.
func checkSyntax(rel string, data []byte) string {
	switch strings.ToLower(path.Ext(rel)) {
	case ".json":
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return formatJSONError(err, data)
		}
	case ".toml":
		var v any
		if err := toml.Unmarshal(data, &v); err != nil {
			return formatTOMLError(err)
		}
	default:
		if bytes.HasPrefix(data, vaultHeader) {
			return ""
		}
		if err := parseYAML(data); err != nil {
			return formatYAMLError(err)
		}
	}
	return ""
}

// parseYAML decodes every document of a YAML stream.
func parseYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var v yaml.Node
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func formatYAMLError(err error) string {
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		return fmt.Sprintf("YAML syntax error at line %s: %s", m[1], m[2])
	}
	return fmt.Sprintf("YAML error: %v", err)
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-based line and column numbers.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
