package options

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// ErrNotATerminal is returned by Pick when there is nobody to ask.
var ErrNotATerminal = errors.New("not a terminal, pass the value as a flag or argument")

// Choice is one option offered by Pick.
type Choice struct {
	Label  string
	Detail string
}

// CanPrompt reports whether stdin and stdout are both terminals.
func CanPrompt() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Pick asks the user to choose one of choices and returns its index.
func Pick(label string, choices []Choice) (int, error) {
	if !CanPrompt() {
		return -1, ErrNotATerminal
	}
	return pick(label, choices, os.Stdin, os.Stdout)
}

func pick(label string, choices []Choice, in io.ReadCloser, out io.WriteCloser) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label }} {{ .Detail | cyan }}",
		Inactive: "   {{ .Label }} {{ .Detail | faint }}",
		Selected: "➜  {{ .Label | green }}",
	}

	searcher := func(input string, index int) bool {
		c := choices[index]
		name := strings.Replace(strings.ToLower(c.Label+c.Detail), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     choices,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     in,
		Stdout:    out,
	}
	i, _, err := prompt.Run()
	return i, err
}
