package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/product-matcher/app/bootstrap"
	"github.com/product-matcher/app/models"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the Meilisearch catalog index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			result, err := app.AdminService.RebuildIndex(ctx)
			if errors.Is(err, models.ErrIndexDisabled) {
				return fmt.Errorf("meilisearch is disabled; set meilisearch.enabled to true")
			}
			if err != nil {
				return fmt.Errorf("rebuilding index: %w", err)
			}

			fmt.Printf("Indexed %d document(s) in %dms.\n", result.Documents, result.ProcessingTimeMs)
			return nil
		})
	},
}
