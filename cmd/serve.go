package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/daymark/internal/api"
)

var serveFlagAddr string

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Long: `Run the JSON API. Requests identify their user with the X-User-ID
header, which a fronting proxy is expected to set.

Examples:
  daymark serve
  daymark serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := ctx.Config.Server
	if serveFlagAddr != "" {
		cfg.Addr = serveFlagAddr
	}
	if !ctx.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(api.Config{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, ctx.Journal, ctx.Analytics, ctx.DB)

	if !ctx.IsJSON() {
		ctx.CLIFormatter().Muted("Listening on " + cfg.Addr + " (Ctrl+C to stop)")
	}
	return srv.Run(runCtx)
}
