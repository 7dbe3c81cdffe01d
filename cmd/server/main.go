package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sppgdatasystem/bgn/internal/app/server/api"
	"github.com/sppgdatasystem/bgn/internal/app/server/config"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/postgres"
	"github.com/sppgdatasystem/bgn/internal/utils/logger"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	var out io.Writer = os.Stdout
	if cfg.Logger.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Logger.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		defer rotator.Close()
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log := logger.NewWithWriter(cfg.Env, out, logger.WithLevel(cfg.Logger.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := sheet.NewService(repo, cfg.Auth.APISecretKey, log)
	if cfg.SeedAdmin {
		if err := svc.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(svc, cfg.DB.Storage, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", "address", cfg.Server.RunAddress, "storage", cfg.DB.Storage, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepository(ctx context.Context, cfg *config.Config, log *slog.Logger) (sheet.Repository, func(), error) {
	switch cfg.DB.Storage {
	case config.StoragePostgres:
		storage, err := postgres.New(ctx, cfg.DB.DatabaseURI)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		closeFn := func() { _ = storage.Close() }
		return postgres.NewSheetRepository(storage.Pool(), log), closeFn, nil
	default:
		return memory.NewSheetRepository(), func() {}, nil
	}
}
