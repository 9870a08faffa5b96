// Package httpd implements the HTTP server command.
package httpd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/is0692vs/chronoclip/cmd/common"
	"github.com/is0692vs/chronoclip/internal/api"
)

// Command builds the httpd command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Serve the extraction API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := common.Build(ctx, *cfgFile, *debug)
			if err != nil {
				return err
			}
			defer deps.Close()

			server := api.NewServer(deps.Config.Server, deps.Builder, deps.Registry, deps.Fetcher, deps.Logger)
			return server.Run(ctx)
		},
	}
}
