package logging

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/thoreinstein/prerelease/internal/errors"
)

// ColorMode selects when terminal output is colorized.
type ColorMode string

const (
	// ColorAuto colorizes terminals that do not opt out.
	ColorAuto ColorMode = "auto"
	// ColorAlways colorizes unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables color.
	ColorNever ColorMode = "never"
)

// ParseColorMode parses the value of a --color flag. The empty string means
// ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", errors.Newf("invalid color mode %q (valid: auto, always, never)", s)
	}
}

// Enabled reports whether output written to w should be colorized.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return SupportsColor(w)
	}
}

// IsTTY returns true if the given writer is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether w accepts ANSI color codes. NO_COLOR
// (https://no-color.org) and TERM=dumb turn color off, a non-empty
// FORCE_COLOR other than "0" turns it on, and otherwise w must be a
// terminal.
func SupportsColor(w io.Writer) bool {
	return colorFromEnv(IsTTY(w))
}

func colorFromEnv(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if v := os.Getenv("FORCE_COLOR"); v != "" && v != "0" {
		return true
	}
	return isTTY
}
