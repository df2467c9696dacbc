package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/outline/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing both stages.

Endpoints:
  GET  /healthz     - health check
  POST /v1/outline  - multipart "file", returns the outline record
  POST /v1/analyze  - multipart "files", "persona", "job", returns the analysis

Examples:
  outline serve                  # listen on server.addr (default :8080)
  outline serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		p, closeFn, err := newPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		srv := server.New(p, cfg.Server.MaxUploadMB, logger)
		return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}
