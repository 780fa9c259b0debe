package main

import (
	"context"
	"fmt"

	"github.com/product-matcher/app/bootstrap"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagIn    string
	flagOut   string
	flagSheet string
)

var matchFileCmd = &cobra.Command{
	Use:   "match-file",
	Short: "Match a spreadsheet of supplier titles and write an Excel report",
	Long: `Read supplier titles from --in (a "title" or "name" column, or the first
column), match each one and write the best catalog product per title to --out.

With Meilisearch enabled candidates come from the index; otherwise every title
is scored against the whole catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, app *bootstrap.App) error {
			titles, err := services.ReadTitles(flagIn, flagSheet)
			if err != nil {
				return err
			}

			var candidates []models.CatalogProduct
			if app.Searcher == nil {
				candidates, err = services.LoadCatalog(ctx, app.Catalog, app.Config.Batch.PageSize)
				if err != nil {
					return err
				}
			}
			app.Logger.Info("Matching titles",
				zap.String("file", flagIn),
				zap.Int("titles", len(titles)),
				zap.Int("catalog", len(candidates)))

			outcomes, err := app.MatchService.MatchTitles(ctx, titles, candidates)
			if err != nil {
				return err
			}
			if err := services.WriteMatchReport(flagOut, outcomes); err != nil {
				return err
			}

			matched := 0
			for _, o := range outcomes {
				if o.Matched {
					matched++
				}
			}
			fmt.Printf("Matched %d of %d title(s); report written to %s.\n", matched, len(outcomes), flagOut)
			return nil
		})
	},
}

func init() {
	matchFileCmd.Flags().StringVar(&flagIn, "in", "", "workbook with supplier titles")
	matchFileCmd.Flags().StringVar(&flagOut, "out", "matches.xlsx", "report workbook to write")
	matchFileCmd.Flags().StringVar(&flagSheet, "sheet", "", "sheet to read (default: first sheet)")
	_ = matchFileCmd.MarkFlagRequired("in")
}
