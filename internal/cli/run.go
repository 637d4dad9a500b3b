package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/spiqa/pkg/config"
	"github.com/xhad/spiqa/pkg/dataset"
	"github.com/xhad/spiqa/pkg/eval"
	"github.com/xhad/spiqa/pkg/llm"
	"github.com/xhad/spiqa/pkg/runner"
)

var (
	datasetOverride   string
	imageRootOverride string
	resultsOverride   string
	noProgress        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the evaluation over the full dataset",
	Long: `Runs the answering-and-grading pipeline over every paper and question.

The run starts with a capability preflight: when the image root contains
figures, a vision-capable backend must be configured and reachable, otherwise
the run aborts before any question is processed. After the preflight passes,
individual backend failures are recorded per question and never stop the
batch. The accumulated results are rewritten to the snapshot file after each
paper and to the final results file at completion.`,
	Example: `  # Run with defaults (uses ./config.yaml and env vars)
  spiqa run

  # Point at a different dataset and image root
  spiqa run --dataset data/SPIQA_testA.json --image-root data/SPIQA_testA_Images

  # Text-only evaluation against a self-hosted model
  LLM_BINDING_HOST=http://ollama:11434 LLM_MODEL=qwen2.5:7b-instruct spiqa run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		if datasetOverride != "" {
			cfg.Dataset.Path = datasetOverride
		}
		if imageRootOverride != "" {
			cfg.Dataset.ImageRoot = imageRootOverride
		}
		if resultsOverride != "" {
			cfg.Eval.ResultsFile = resultsOverride
		}

		if errs := cfg.Validate(); len(errs) > 0 {
			for _, e := range errs {
				color.Red("config error: %v", e)
			}
			return fmt.Errorf("invalid configuration")
		}

		return runEval(cmd.Context(), cfg, !noProgress)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&datasetOverride, "dataset", "", "Path to the dataset JSON file")
	runCmd.Flags().StringVar(&imageRootOverride, "image-root", "", "Directory holding {paper_id}/{figure_id} images")
	runCmd.Flags().StringVarP(&resultsOverride, "results", "o", "", "Path for the incremental results snapshot")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
}

func runEval(ctx context.Context, cfg *config.Config, showProgress bool) error {
	papers, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	color.Blue("Loaded %d papers from %s", len(papers), cfg.Dataset.Path)

	imageRootExists := dataset.ImageRootExists(cfg.Dataset.ImageRoot)

	// Hard gate: a fatal preflight failure is the only abort path, and it
	// happens before any question-level work begins.
	preflight := llm.PreflightConfig{
		BaseURL:         cfg.LLM.BaseURL,
		VisionModel:     cfg.Vision.Model,
		AzureConfigured: cfg.AzureConfigured(),
		Timeout:         30 * time.Second,
	}
	if err := llm.Preflight(ctx, preflight, imageRootExists); err != nil {
		printPreflightHelp(err, cfg)
		return err
	}

	imageRoot := ""
	if imageRootExists {
		imageRoot = cfg.Dataset.ImageRoot
	}

	client, err := llm.NewWithConfig(llm.ClientConfig{
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		MaxTokens:         cfg.LLM.MaxTokens,
		Temperature:       cfg.LLM.Temperature,
		Timeout:           time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		RateLimit:         cfg.LLM.RateLimit,
		VisionModel:       cfg.Vision.Model,
		VisionTemperature: cfg.Vision.Temperature,
		Azure: llm.AzureConfig{
			Endpoint:   cfg.Azure.Endpoint,
			APIKey:     cfg.Azure.APIKey,
			APIVersion: cfg.Azure.APIVersion,
			Deployment: cfg.Azure.Deployment,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backend client: %v", err)
	}

	pipeline := eval.NewPipeline(client, eval.NewGrader(cfg.Eval.SimilarityThreshold))

	r := runner.New(runner.Config{
		ResultsFile:      cfg.Eval.ResultsFile,
		FinalResultsFile: cfg.Eval.FinalResultsFile,
		ShowProgress:     showProgress,
	}, pipeline, dataset.NewLoader(imageRoot))

	stats, err := r.Run(ctx, papers)
	if err != nil {
		return err
	}

	stats.PrintSummary(os.Stdout)
	color.Green("\n✓ Final results saved to %s", cfg.Eval.FinalResultsFile)
	return nil
}

// printPreflightHelp surfaces fatal configuration errors with actionable
// remediation before the non-zero exit.
func printPreflightHelp(err error, cfg *config.Config) {
	switch {
	case errors.Is(err, llm.ErrVisionNotConfigured):
		color.Red("Images are present but no vision backend is configured.")
		fmt.Println("Install and configure a vision model first, for example:")
		fmt.Println("  ollama pull qwen2.5-vl:7b-instruct")
		fmt.Println("  export VISION_MODEL=qwen2.5-vl:7b-instruct")
	case errors.Is(err, llm.ErrModelNotInstalled):
		color.Red("Vision model is not installed: %s", cfg.Vision.Model)
		fmt.Println("Install it first:")
		fmt.Printf("  ollama pull %s\n", cfg.Vision.Model)
		fmt.Println("Or pick an installed model, e.g. qwen2.5-vl:7b-instruct / llama3.2-vision:11b / llava:7b")
	case errors.Is(err, llm.ErrProviderUnreachable):
		color.Red("Cannot reach the model provider at %s", cfg.LLM.BaseURL)
	}
}
