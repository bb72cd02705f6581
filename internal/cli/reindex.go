package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch/internal/match"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Generate embeddings for jobs that lack one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reindex(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().Int("batch-size", match.DefaultBatchSize, "embeddings committed per transaction")
	reindexCmd.Flags().Bool("force", false, "delete all existing embeddings and regenerate from scratch")
}

func reindex(cmd *cobra.Command) error {
	ctx := context.Background()

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	force, _ := cmd.Flags().GetBool("force")

	processed, err := a.indexer.GenerateMissing(ctx, batchSize, force)
	if err != nil {
		return err
	}

	a.logger.Info("reindex finished", zap.Int("processed", processed))
	return nil
}
