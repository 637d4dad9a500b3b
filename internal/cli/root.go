package cli

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "spiqa",
		Short: "Figure-grounded QA evaluation over scientific papers",
		Long: `Evaluates question-answering quality over a corpus of scientific papers
whose questions may reference figures or tables. Questions with a resolvable
figure reference go through a two-stage vision extract-then-reason protocol;
everything else is answered text-only. Answers are normalized, graded against
ground truth and accumulated into resumable result artifacts.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}
