package printers

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
)

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v any) error {
	enc := json.NewEncoder(pp.out())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Done confirms a change, e.g. "✓ added entry 1a2b3c4d".
func (pp *PrettyPrint) Done(format string, args ...any) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprint(pp.out(), "✓ ")
	_, _ = fmt.Fprintf(pp.out(), format+"\n", args...)
}

// Note prints a faint aside.
func (pp *PrettyPrint) Note(format string, args ...any) {
	_, _ = color.New(color.Faint).Fprintf(pp.out(), format+"\n", args...)
}
