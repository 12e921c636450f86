package validators

import (
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/prerelease/internal/validator"
)

// base carries the identity shared by every validator.
type base struct {
	name     string
	category string
}

func (b base) Name() string     { return b.name }
func (b base) Category() string { return b.category }

func (b base) result(f *validator.Findings) *validator.Result {
	return f.Result(b.name, b.category)
}

func (b base) skip(msg string) *validator.Result {
	return validator.Skipped(b.name, b.category, msg)
}

// internalError reports a failure of the check itself, such as an unreadable
// file, as a FAIL result.
func (b base) internalError(err error) *validator.Result {
	return validator.Failed(b.name, b.category, "internal error: "+err.Error())
}

func loc(rel string, line int) string {
	if line <= 0 {
		return rel
	}
	return rel + ":" + itoa(line)
}

// maxQuote bounds how much of a source line a message quotes.
const maxQuote = 120

// trim prepares a source line for quoting in a message. Long lines are cut
// on a rune boundary and invalid UTF-8 is replaced.
func trim(line string) string {
	line = strings.ToValidUTF8(strings.TrimSpace(line), "\uFFFD")
	if len(line) <= maxQuote {
		return line
	}
	cut := maxQuote
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}
