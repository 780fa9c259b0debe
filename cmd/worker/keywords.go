package main

import (
	"context"
	"fmt"
	"time"

	"github.com/product-matcher/app/bootstrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract and store keywords for every catalog product",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			stats, err := app.KeywordService.RunBatch(ctx, func(processed, failed, total int) {
				app.Logger.Info("Keyword batch progress",
					zap.Int("processed", processed),
					zap.Int("failed", failed),
					zap.Int("total", total))
			})
			if err != nil {
				return fmt.Errorf("keyword batch: %w", err)
			}

			fmt.Printf("Processed %d of %d product(s), %d fallback row(s) in %s.\n",
				stats.Processed, stats.Total, stats.Failed, stats.Duration.Round(time.Millisecond))
			return nil
		})
	},
}
