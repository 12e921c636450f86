// Package frontmatter parses YAML frontmatter from Markdown files.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is parsed as YAML and unmarshaled into the
// type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
// # Basic Usage
//
//	type DocMeta struct {
//		Title string   `yaml:"title"`
//		Tags  []string `yaml:"tags"`
//	}
//
//	meta, body, err := frontmatter.ParseFile[DocMeta]("docs/usage.md")
//
// # Error Handling
//
//   - [ErrNoFrontmatter]: content doesn't start with a "---" line
//   - [ErrUnterminated]: the closing "---" line is missing
//   - [ErrInvalidYAML]: frontmatter exists but contains invalid YAML
//
// Both LF and CRLF line endings are accepted; returned content uses LF.
package frontmatter
