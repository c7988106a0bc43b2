package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/featuretable/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Start an HTTP server that converts annotations to feature tables.

  POST /v1/tbl    JSON gene map or results array (or GFF3 with
                  Content-Type: text/x-gff3); responds with the table
  GET  /healthz   liveness probe

Rendered tables are cached in redis when redis_addr is configured,
otherwise in the local cache directory.`,
		Example: `  featuretable serve --listen :8080
  curl --data-binary @annotation.gff3 -H 'Content-Type: text/x-gff3' localhost:8080/v1/tbl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = c.Config.Listen
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, c.Logger).ListenAndServe(ctx, listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the rendered-table cache")

	return cmd
}
