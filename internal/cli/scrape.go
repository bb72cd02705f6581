package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch/internal/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape cycle over all job boards",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return scrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringSlice("exclude", nil, "exclusion terms; any match discards the offer")
	scrapeCmd.Flags().Bool("embed", false, "generate embeddings for new jobs after scraping")
}

func scrape(cmd *cobra.Command) error {
	ctx := context.Background()

	embed, _ := cmd.Flags().GetBool("embed")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	a, err := newApplication(ctx, embed)
	if err != nil {
		return err
	}
	defer a.Close()

	worker := scraper.NewWorker(a.jobs, a.rdb, defaultScrapers(), exclude, a.logger)
	stats := worker.Run(ctx)

	a.logger.Info("scrape finished",
		zap.Int("inserted", stats.Inserted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("filtered", stats.Filtered),
		zap.Int("failed", stats.Failed))

	if embed {
		processed, err := a.indexer.GenerateMissing(ctx, 0, false)
		if err != nil {
			return err
		}
		a.logger.Info("embeddings generated", zap.Int("processed", processed))
	}
	return nil
}
