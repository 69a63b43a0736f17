package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the import HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			slog.Info("import types registered", "count", core.TypeCount())

			server := web.NewServer(a.service, a.cfg)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			// Stop accepting requests first; running imports keep their own context.
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
			}

			if active := a.service.ActiveImports(); active > 0 {
				slog.Info("waiting for imports to complete", "active", active)
				if err := a.service.WaitForImports(shutdownCtx); err != nil {
					slog.Warn("imports did not complete in time", "error", err)
				} else {
					slog.Info("all imports completed")
				}
			}
			return nil
		},
	}
}
