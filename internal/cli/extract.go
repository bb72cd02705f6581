package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobmatch/internal/config"
	"jobmatch/internal/logger"
	"jobmatch/internal/pdfutil"
	"jobmatch/internal/skills"
)

var extractCmd = &cobra.Command{
	Use:   "extract-skills <cv.pdf>",
	Short: "Extract skill tokens from a CV PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return extractSkills(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// extractSkills needs no database: PDF text goes straight to the LLM.
func extractSkills(path string) error {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	text, err := pdfutil.ExtractText(path)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no text could be extracted from %q", path)
	}

	extractor, err := skills.New(skills.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ExtractModel,
	})
	if err != nil {
		return err
	}

	extracted, err := extractor.Extract(ctx, text)
	if err != nil {
		return err
	}

	return printJSON(extracted)
}
