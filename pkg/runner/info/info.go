package info

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/store"
)

// Info describes where the journal lives and which records it holds.
type Info struct {
	Config      store.Config
	Persistence store.Persistence
	// Key is the record of the signed in user.
	Key  string
	JSON bool
	Out  io.Writer
}

type report struct {
	ConfigPath string   `json:"configPath,omitempty"`
	BasePath   string   `json:"path"`
	Driver     string   `json:"driver"`
	DSN        string   `json:"dsn,omitempty"`
	Key        string   `json:"key"`
	Records    []string `json:"records"`
}

func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	if n.Persistence == nil {
		return fmt.Errorf("no persistence for driver %q", n.Config.Driver())
	}

	r := report{
		ConfigPath: os.Getenv("JOURNAL_CONFIG_PATH"),
		BasePath:   n.Config.BasePath(),
		Driver:     string(n.Config.Driver()),
		DSN:        redact(n.Config.DSN()),
		Key:        n.Key,
		Records:    n.Persistence.Keys(ctx),
	}
	if r.Records == nil {
		r.Records = []string{}
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(r)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	f := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	if r.ConfigPath != "" {
		tbl.AddRow(f.Sprint("JOURNAL_CONFIG_PATH"), r.ConfigPath)
	} else {
		tbl.AddRow(f.Sprint("JOURNAL_CONFIG_PATH"), f.Sprint("not set"))
	}
	tbl.AddRow(f.Sprint("path"), r.BasePath)
	tbl.AddRow(f.Sprint("driver"), r.Driver)
	if r.DSN != "" {
		tbl.AddRow(f.Sprint("dsn"), r.DSN)
	}
	tbl.AddRow(f.Sprint("current record"), r.Key)
	_, _ = fmt.Fprintln(out, tbl)

	pp.TitleWithCount("Records", len(r.Records), "record", "records")
	for _, k := range r.Records {
		marker := "  "
		if k == r.Key {
			marker = "» "
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", marker, k)
	}
	return nil
}

// redact hides the password of a connection URL.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
