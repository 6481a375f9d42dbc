package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ormdemo/internal/config"
	"ormdemo/internal/database"
	"ormdemo/internal/logger"
	"ormdemo/internal/seed"
	"ormdemo/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "ormdemo",
		Short:         "Seed the city/customer/order demo tables and serve them over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.String("db-driver", "", "database driver: postgres or sqlite")
	flags.String("sqlite-path", "", "sqlite database file (sqlite driver only)")
	flags.Int("port", 0, "HTTP listen port")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Reset and reseed the demo tables, then serve them until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, envFile, true)
		},
	}
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset and reseed the demo tables, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, envFile, false)
		},
	}

	root.AddCommand(serve, seedCmd)
	root.RunE = serve.RunE
	return root
}

func run(cmd *cobra.Command, envFile string, keepServing bool) error {
	cfg, err := config.Load(cmd.Flags(), envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProd())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	opts := []seed.Option{seed.WithLogger(log.Named("seed"))}
	if cfg.SeedRandSeed != 0 {
		opts = append(opts, seed.WithSeed(cfg.SeedRandSeed))
	}
	seeder := seed.New(opts...)

	if _, err := seeder.Run(ctx, handle.DB); err != nil {
		log.Error("Failed to seed demo data", zap.Error(err))
		return err
	}

	if !keepServing {
		return nil
	}

	srv := server.NewServer(cfg, handle, seeder, log)
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("HTTP server error", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server gracefully ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
		return err
	}
	log.Info("Server exiting")
	return nil
}
