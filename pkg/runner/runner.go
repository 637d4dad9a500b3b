package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/spiqa/internal/models"
	"github.com/xhad/spiqa/internal/types"
)

// Config represents the configuration for a Runner.
type Config struct {
	ResultsFile      string // incremental snapshot, rewritten after each paper
	FinalResultsFile string // final artifact, same schema, distinct name
	ShowProgress     bool
}

// Runner drives the batch over all papers and questions. A single worker
// processes questions sequentially; per-question failures are recorded and
// skipped over, and the full result mapping is persisted after every paper so
// a crash loses at most the in-flight paper.
type Runner struct {
	config   Config
	pipeline types.Pipeline
	loader   types.ImageLoader
	results  map[string]models.EvaluationResult
	stats    *Stats
}

// New creates a Runner.
func New(config Config, pipeline types.Pipeline, loader types.ImageLoader) *Runner {
	if config.ResultsFile == "" {
		config.ResultsFile = "spiqa_results.json"
	}
	if config.FinalResultsFile == "" {
		config.FinalResultsFile = "spiqa_results_final.json"
	}
	return &Runner{
		config:   config,
		pipeline: pipeline,
		loader:   loader,
		results:  make(map[string]models.EvaluationResult),
		stats:    NewStats(),
	}
}

// Run processes every paper in a stable order and returns the final
// statistics. Only context cancellation or a persistence failure stops the
// run early; backend failures surface as per-question error results.
func (r *Runner) Run(ctx context.Context, papers map[string]models.Paper) (*Stats, error) {
	paperIDs := make([]string, 0, len(papers))
	total := 0
	for id, paper := range papers {
		paperIDs = append(paperIDs, id)
		total += len(paper.QA)
	}
	sort.Strings(paperIDs)

	var bar *progressbar.ProgressBar
	if r.config.ShowProgress {
		bar = getProgressBar(total, " Evaluating questions")
	}

	for _, paperID := range paperIDs {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}

		paper := papers[paperID]
		slog.Info("processing paper", "paper", paperID, "questions", len(paper.QA))

		images := r.loader.LoadImages(paperID, paper.AllFigures)

		paperTotal := 0
		paperCorrect := 0
		for i, q := range paper.QA {
			res := r.pipeline.Answer(ctx, paperID, i, q, images)
			r.results[res.Key()] = res
			r.stats.Record(res)

			if !res.Failed() && res.Evaluation != nil {
				paperTotal++
				if res.Evaluation.IsCorrect {
					paperCorrect++
				}
			}
			if bar != nil {
				bar.Add(1)
			}
		}
		r.stats.FinishPaper(paperID, paperTotal, paperCorrect)

		// Each snapshot reflects a superset of the questions in the previous
		// one: the whole accumulated mapping is rewritten every time.
		if err := r.persist(r.config.ResultsFile); err != nil {
			return r.stats, fmt.Errorf("writing snapshot: %w", err)
		}

		slog.Info("paper complete", "paper", paperID, "correct", paperCorrect, "total", paperTotal)
	}

	if bar != nil {
		bar.Finish()
	}

	if err := r.persist(r.config.FinalResultsFile); err != nil {
		return r.stats, fmt.Errorf("writing final results: %w", err)
	}

	return r.stats, nil
}

// Results returns the accumulated result mapping, keyed "{paper_id}_q{index}".
func (r *Runner) Results() map[string]models.EvaluationResult {
	return r.results
}

func (r *Runner) persist(path string) error {
	data, err := json.MarshalIndent(r.results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("questions"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
