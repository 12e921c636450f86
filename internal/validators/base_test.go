package validators

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"short", "  echo hi  ", "echo hi"},
		{"exact", strings.Repeat("a", maxQuote), strings.Repeat("a", maxQuote)},
		{"ascii cut", strings.Repeat("a", maxQuote+5), strings.Repeat("a", maxQuote) + "..."},
		// After the leading x every 'é' is two bytes, so byte 120 falls inside one.
		{"two byte runes", "x" + strings.Repeat("é", 80), "x" + strings.Repeat("é", 59) + "..."},
		{"invalid bytes", "pass\xff\xfeword", "pass�word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trim(tt.line)
			if got != tt.want {
				t.Errorf("trim() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("trim() = %q is not valid UTF-8", got)
			}
		})
	}
}
