// Package frontmatter provides utilities for parsing YAML frontmatter in
// markdown files.
package frontmatter

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter is returned when content does not start with "---".
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrUnterminated is returned when the closing "---" is missing.
	ErrUnterminated = errors.New("missing closing frontmatter delimiter")

	// ErrInvalidYAML is returned when the frontmatter is not valid YAML.
	ErrInvalidYAML = errors.New("invalid YAML frontmatter")
)

const delimiter = "---"

// Has reports whether content starts with a frontmatter delimiter line.
func Has(content []byte) bool {
	first, _, _ := bytes.Cut(normalize(content), []byte("\n"))
	return string(first) == delimiter
}

// Split separates the frontmatter block from the body. CRLF line endings are
// converted to LF in both parts. The returned slices may share memory with
// content.
func Split(content []byte) (header, body []byte, err error) {
	content = normalize(content)
	if !Has(content) {
		return nil, nil, ErrNoFrontmatter
	}

	lines := bytes.SplitAfter(content, []byte("\n"))
	start := len(lines[0])
	offset := start
	for _, line := range lines[1:] {
		if string(bytes.TrimSuffix(line, []byte("\n"))) == delimiter {
			return content[start:offset], content[offset+len(line):], nil
		}
		offset += len(line)
	}

	return nil, nil, ErrUnterminated
}

// Parse decodes the frontmatter of r into T and returns the body.
func Parse[T any](r io.Reader) (T, string, error) {
	var matter T

	content, err := io.ReadAll(r)
	if err != nil {
		return matter, "", errors.Wrap(err, "reading content")
	}

	header, body, err := Split(content)
	if err != nil {
		return matter, "", err
	}

	if err := yaml.Unmarshal(header, &matter); err != nil {
		return matter, "", errors.Mark(errors.Wrap(err, "invalid YAML frontmatter"), ErrInvalidYAML)
	}

	return matter, string(body), nil
}

// ParseFile is Parse over the contents of path.
func ParseFile[T any](path string) (T, string, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	return Parse[T](f)
}

func normalize(content []byte) []byte {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
