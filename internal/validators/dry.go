package validators

import (
	"context"
	"strings"

	"github.com/thoreinstein/prerelease/internal/config"
	"github.com/thoreinstein/prerelease/internal/scan"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// DRY reports blocks of normalized lines that appear more than once, within
// a file or across files.
type DRY struct {
	base
	cfg config.DRYConfig
}

// NewDRY creates the dry validator.
func NewDRY(cfg config.DRYConfig) *DRY {
	return &DRY{
		base: base{name: "dry", category: "dry"},
		cfg:  cfg,
	}
}

// trivialLines carry no meaning on their own and never count toward a
// duplicate block.
var trivialLines = map[string]bool{
	"{": true, "}": true, "(": true, ")": true, "fi": true, "done": true,
	"esac": true, "else": true, "then": true, "do": true, "---": true,
	"end": true, ";;": true, "pass": true, "return": true,
}

// codeLine is a normalized line with its 1-based position in the file.
type codeLine struct {
	text string
	line int
}

type position struct {
	file int
	idx  int
}

// Validate implements validator.Validator.
func (d *DRY) Validate(ctx context.Context, target *validator.Target, _ validator.Options) *validator.Result {
	files, err := target.Match(d.cfg.Include...)
	if err != nil {
		return d.internalError(err)
	}

	var names []string
	var bodies [][]codeLine
	err = target.EachText(ctx, files, func(rel string, data []byte) error {
		names = append(names, rel)
		bodies = append(bodies, normalize(data))
		return nil
	})
	if err != nil {
		return d.internalError(err)
	}

	var f validator.Findings
	for _, dup := range duplicates(bodies, d.cfg.MinLines) {
		src := bodies[dup.file]
		orig := bodies[dup.orig.file]
		f.AddWarning(
			loc(names[dup.file], src[dup.idx].line),
			"%d lines duplicate %s-%d",
			dup.length,
			loc(names[dup.orig.file], orig[dup.orig.idx].line),
			orig[dup.orig.idx+dup.length-1].line,
		)
	}
	return d.result(&f)
}

// normalize drops blank, comment and trivial lines and collapses whitespace.
func normalize(data []byte) []codeLine {
	var out []codeLine
	for i, line := range scan.Lines(data) {
		text := strings.Join(strings.Fields(line), " ")
		if text == "" || scan.IsComment(text) || trivialLines[text] {
			continue
		}
		out = append(out, codeLine{text: text, line: i + 1})
	}
	return out
}

// duplicate is a block starting at (file, idx) that repeats the block at
// orig.
type duplicate struct {
	position
	orig   position
	length int
}

// duplicates finds blocks of at least minLines lines that already occurred
// earlier. Each later copy is reported once, extended as far as it keeps
// matching its original.
func duplicates(bodies [][]codeLine, minLines int) []duplicate {
	first := make(map[string]position)
	for fi, body := range bodies {
		for i := 0; i+minLines <= len(body); i++ {
			key := window(body[i : i+minLines])
			if _, ok := first[key]; !ok {
				first[key] = position{file: fi, idx: i}
			}
		}
	}

	var dups []duplicate
	for fi, body := range bodies {
		for i := 0; i+minLines <= len(body); {
			orig := first[window(body[i:i+minLines])]
			here := position{file: fi, idx: i}
			if orig == here || (orig.file == fi && orig.idx+minLines > i) {
				i++
				continue
			}

			src := bodies[orig.file]
			n := minLines
			for i+n < len(body) && orig.idx+n < len(src) && body[i+n].text == src[orig.idx+n].text {
				if orig.file == fi && orig.idx+n >= i {
					break
				}
				n++
			}
			dups = append(dups, duplicate{position: here, orig: orig, length: n})
			i += n
		}
	}
	return dups
}

func window(lines []codeLine) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
