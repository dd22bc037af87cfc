package commands

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		hs        mcp.HTTP
		host      string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the journal over the Model Context Protocol",
		Long: `Launch an MCP server that lets an assistant read and write entries, check in
to goals and record journeys.`,
		Example: `
journal mcp
journal mcp --transport stdio
journal mcp --http-host 0.0.0.0 --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := mcp.ParseTransport(transport)
			if err != nil {
				return err
			}
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid --http-port %d", port)
			}
			hs.Addr = net.JoinHostPort(host, strconv.Itoa(port))

			return withRuntime(cmd.Context(), func(rt *runtime) error {
				r := mcp.Runner{
					App:       rt.App,
					Recap:     rt.Recap,
					Name:      "journal",
					Version:   version,
					Transport: t,
					HTTP:      hs,
					Listening: func(url string) {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", url)
					},
				}
				return r.Do(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "http or stdio.")
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "Interface the HTTP transport listens on.")
	cmd.Flags().IntVar(&port, "http-port", 8080, "Port of the HTTP transport; 0 picks a free one.")
	cmd.Flags().StringVar(&hs.Path, "http-path", "/mcp", "Endpoint path.")
	cmd.Flags().StringVar(&hs.CertFile, "http-tls-cert", "", "Certificate file; serves HTTPS together with --http-tls-key.")
	cmd.Flags().StringVar(&hs.KeyFile, "http-tls-key", "", "Private key file for HTTPS.")

	topLevel.AddCommand(cmd)
}
