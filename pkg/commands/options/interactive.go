package options

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Read the content from standard input until EOF.`)
}

// ReadAll returns everything on r, trimmed.
func (o *InteractiveOptions) ReadAll(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		_, _ = fmt.Fprintln(os.Stderr, "Write your entry, then press Ctrl-D.")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ReadSecret prompts on stderr and reads a line without echo when stdin is a
// terminal; piped input is read as a plain line.
func ReadSecret(prompt string) (string, error) {
	fd := os.Stdin.Fd()
	if isatty.IsTerminal(fd) {
		_, _ = fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(fd))
		_, _ = fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}
