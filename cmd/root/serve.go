package root

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
	"github.com/Vovarama1992/messenger-broadcast/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web console",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sessions, closeSessions, err := openSessions(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		// --- wiring ---
		functions := broadcast.NewFunctionsClient(cfg.Functions.BaseURL, cfg.Functions.Timeout)
		shell := web.NewShell(newProvider(cfg), sessions, broadcast.NewWorkspace(functions))
		if err := shell.Start(ctx); err != nil {
			return err
		}

		router := web.NewRouter(web.NewHandler(shell), cfg.AllowedOrigins)

		srv := &http.Server{
			Addr:              cfg.Address(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
