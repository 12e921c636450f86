package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/prerelease/internal/redact"
)

// hue indexes the colors of a palette.
type hue int

const (
	hueTime hue = iota
	hueKey
	hueTrace
	hueDebug
	hueInfo
	hueWarn
	hueError
	hueCount
)

// palette holds the colors of a Handler. A nil palette prints plain text.
type palette [hueCount]*color.Color

func newPalette() *palette {
	p := &palette{
		hueTime:  color.New(color.FgHiBlack),
		hueKey:   color.New(color.FgCyan),
		hueTrace: color.New(color.FgHiBlack),
		hueDebug: color.New(color.FgMagenta),
		hueInfo:  color.New(color.FgGreen),
		hueWarn:  color.New(color.FgYellow),
		hueError: color.New(color.FgRed, color.Bold),
	}
	for _, c := range p {
		c.EnableColor()
	}
	return p
}

// Handler implements slog.Handler for terminal-friendly text output:
//
//	15:04:05 INFO  validator finished validator=security status=FAIL
//
// Attribute values whose key looks secret, or that carry a known token
// prefix, are masked.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	// pre holds attributes added with WithAttrs, already formatted.
	pre    string
	groups []string
}

// NewHandler creates a text handler writing to out. Color follows mode.
func NewHandler(out io.Writer, opts *slog.HandlerOptions, mode ColorMode) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if mode.Enabled(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r on a single line and writes it with one call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(hueTime, r.Time.Format(time.TimeOnly)))
		buf.WriteByte(' ')
	}

	label, c := level(r.Level)
	// Pad before painting so escape codes do not break alignment.
	buf.WriteString(h.paint(c, fmt.Sprintf("%-5s", label)))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	buf.WriteString(h.pre)
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func level(l slog.Level) (string, hue) {
	switch {
	case l >= slog.LevelError:
		return "ERROR", hueError
	case l >= slog.LevelWarn:
		return "WARN", hueWarn
	case l >= slog.LevelInfo:
		return "INFO", hueInfo
	case l >= slog.LevelDebug:
		return "DEBUG", hueDebug
	default:
		return "TRACE", hueTrace
	}
}

func (h *Handler) paint(c hue, s string) string {
	if h.colors == nil {
		return s
	}
	return h.colors[c].Sprint(s)
}

func (h *Handler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, key, ga)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(hueKey, key))
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Key, a.Value))
}

// formatValue renders v, masking secrets and quoting strings with spaces.
func formatValue(key string, v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindDuration:
		s = v.Duration().Round(time.Microsecond).String()
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	default:
		s = fmt.Sprint(v.Any())
	}

	if redact.ShouldMask(key) || redact.ContainsTokenPrefix(s) {
		return redact.MaskValue(s)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		h.appendAttr(&buf, prefix, a)
	}
	newH := *h
	newH.pre = h.pre + buf.String()
	return &newH
}

// WithGroup returns a new Handler with the given group name.
// Groups are rendered as dotted key prefixes.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = append(append([]string(nil), h.groups...), name)
	return &newH
}
