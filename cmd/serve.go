package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anipix/anipix/internal/config"
	"github.com/anipix/anipix/internal/handlers"
	"github.com/anipix/anipix/internal/images"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browsing API and image proxy",
		Long: `Starts the AniPix HTTP server on the specified port.

The server exposes the gallery, search, tag, detail and random discovery
endpoints as JSON, plus the image proxy at /proxy?url=... that fetches assets
from the external host with the headers it expects.`,
		Example: `  # Start server on default port 8888
  anipix serve --catalog catalog.json

  # Start server on custom port
  anipix serve --catalog images.parquet --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := opts.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			handler := handlers.New(handlers.Options{
				Store:       store,
				Fetcher:     images.NewFetcher(cfg.FetchConfig()),
				HistorySize: cfg.HistorySize,
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ttl := cfg.SessionTTL
			if ttl <= 0 {
				ttl = config.Default().SessionTTL
			}

			// Evict idle discovery sessions
			go func() {
				ticker := time.NewTicker(ttl / 4)
				defer ticker.Stop()
				for {
					select {
					case <-cmd.Context().Done():
						return
					case <-ticker.C:
						if n := handler.Sessions().Sweep(ttl); n > 0 {
							slog.Debug("Evicted idle sessions", "count", n)
						}
					}
				}
			}()

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("AniPix available", "addr", addr, "url", "http://localhost"+addr, "images", store.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default 8888)")

	return cmd
}
