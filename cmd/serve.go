package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/api"
	"github.com/jengzang/trackcore-go/internal/logger"
	"github.com/jengzang/trackcore-go/internal/watch"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API under /api/v1. With --watch-dir set, recordings
dropped into that directory are imported while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
	cmd.Flags().String("port", ":8080", "listen address")
	cmd.Flags().String("jwt-secret", "", "HS256 secret required on mutating routes, empty to disable")
	cmd.Flags().String("watch-dir", "", "directory to import new recordings from")
	return cmd
}

func runServer(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	log := logger.L()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WatchDir != "" {
		w, err := watch.New(cfg.WatchDir, fileImporter(a), watch.DefaultSettle, log)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	if cfg.JWTSecret == "" {
		log.Warn("jwt-secret is empty, mutating routes are not protected")
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           api.SetupRouter(cfg, a.db, a.lookup, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
