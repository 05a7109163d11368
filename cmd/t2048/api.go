package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/httpapi"
)

var flagAPIAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Serve boards over HTTP with a WebSocket event stream.

Endpoints:
  GET    /health
  GET    /api/v1/variants
  GET    /api/v1/scores/{variant}
  POST   /api/v1/games                 {"variant", "seed", "board"}
  GET    /api/v1/games/{id}
  DELETE /api/v1/games/{id}
  POST   /api/v1/games/{id}/swipe      {"direction": "left"}
  POST   /api/v1/games/{id}/reset
  GET    /api/v1/games/{id}/events     (WebSocket)

Examples:
  t2048 api
  t2048 api --addr 127.0.0.1:9000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runAPI(_ *cobra.Command, _ []string) error {
	store := openStore()
	defer closeStore(store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpapi.New(store, logger).ListenAndServe(ctx, flagAPIAddr)
}
