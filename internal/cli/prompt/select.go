// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/thoreinstein/prerelease/internal/errors"
)

// Sentinel errors for validator selection.
var (
	ErrNoChoices          = errors.New("no validators to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Choice is one selectable validator.
type Choice struct {
	Name     string
	Category string
	Fixable  bool
}

func (c Choice) label() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Category)
}

// Selector handles interactive validator selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	fuzzy  bool
}

// NewSelector creates a Selector on stdin and stdout. The fuzzy finder is
// used when stdin is a terminal, the numbered prompt otherwise.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
		fuzzy:  term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewSelectorWithIO creates a Selector using the numbered prompt on r and w.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectValidators asks for a subset of choices and returns the selected
// names in the order of choices.
//
// Returns:
//   - ErrNoChoices if the list is empty
//   - every name when the answer is empty
//   - ErrInvalidSelection if an entry is not a number or is out of range
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) SelectValidators(choices []Choice) ([]string, error) {
	if len(choices) == 0 {
		return nil, ErrNoChoices
	}

	var picked map[int]bool
	var err error
	if s.fuzzy {
		picked, err = findMulti(choices)
	} else {
		picked, err = s.ask(choices)
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(choices))
	for i, c := range choices {
		if picked == nil || picked[i] {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func findMulti(choices []Choice) (map[int]bool, error) {
	idxs, err := fuzzyfinder.FindMulti(
		choices,
		func(i int) string {
			return choices[i].label()
		},
		fuzzyfinder.WithPromptString("validators> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			c := choices[i]
			fix := "no"
			if c.Fixable {
				fix = "yes"
			}
			return fmt.Sprintf("Name:     %s\nCategory: %s\nFixable:  %s\n\nTab selects, Enter runs.", c.Name, c.Category, fix)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	picked := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		picked[i] = true
	}
	return picked, nil
}

// ask shows a numbered list and reads a comma-separated answer. A nil map
// means everything was selected.
func (s *Selector) ask(choices []Choice) (map[int]bool, error) {
	fmt.Fprintln(s.writer, "Available validators:")
	for i, c := range choices {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, c.label())
	}
	fmt.Fprintf(s.writer, "Select (e.g. 1,3; empty for all): ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	picked := make(map[int]bool)
	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", field)
		}
		if n < 1 || n > len(choices) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(choices))
		}
		picked[n-1] = true
	}
	return picked, nil
}
