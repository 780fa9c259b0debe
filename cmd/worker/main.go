package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/product-matcher/app/bootstrap"
	"github.com/product-matcher/app/config"
	"github.com/product-matcher/helpers/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Batch jobs for the product matcher",
	Long: `worker runs the offline jobs of the product matcher: building the keyword
table for the catalog, matching a spreadsheet of supplier titles and
rebuilding the catalog search index.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: config/app.yaml)")

	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(matchFileCmd)
	rootCmd.AddCommand(indexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp loads configuration, wires the services and runs fn until it returns
// or the process receives SIGINT/SIGTERM.
func withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initializing services: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Failed to close backends", zap.Error(err))
		}
	}()

	start := time.Now()
	err = fn(ctx, app)
	log.Info("Worker finished", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	return err
}
