package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xhad/spiqa/pkg/config"
	"github.com/xhad/spiqa/pkg/llm"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List models available on the configured provider",
	Long:  `Queries the self-hosted provider's model listing. Useful to verify connectivity and pick a vision model before a run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		names, err := llm.ListModels(cmd.Context(), cfg.LLM.BaseURL, 30*time.Second)
		if err != nil {
			return fmt.Errorf("listing models on %s: %w", cfg.LLM.BaseURL, err)
		}

		for _, name := range names {
			fmt.Printf("- %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
