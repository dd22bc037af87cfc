package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions
type OutputOptions struct {
	JSON    bool
	Verbose bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
	cmd.PersistentFlags().BoolVarP(&po.Verbose, "verbose", "v", false,
		"Echo debug logs to stderr.")
}

// HandleError prints err as {"error": ...} in JSON mode and swallows it;
// otherwise it is returned unchanged.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if o.JSON {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
