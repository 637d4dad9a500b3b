package runner

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSummary writes the console-facing run summary: overall counts, mean
// metrics and the per-question-type breakdown.
func (s *Stats) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	color.New(color.FgCyan, color.Bold).Fprintln(w, "Evaluation summary")

	fmt.Fprintf(w, "Total questions:  %d\n", s.Processed+s.Failed)
	fmt.Fprintf(w, "Processed:        %d\n", s.Processed)
	fmt.Fprintf(w, "Failed:           %d\n", s.Failed)
	fmt.Fprintf(w, "Correct:          %d\n", s.Correct)
	fmt.Fprintf(w, "Overall accuracy: %.3f (%d/%d)\n", s.OverallAccuracy(), s.Correct, s.Processed)
	fmt.Fprintf(w, "Mean similarity:  %.3f\n", s.AvgSimilarity())
	fmt.Fprintf(w, "Mean overlap:     %.3f\n", s.AvgPhraseOverlap())

	if len(s.QuestionTypes) == 0 {
		return
	}

	questionTypes := make([]string, 0, len(s.QuestionTypes))
	for qt := range s.QuestionTypes {
		questionTypes = append(questionTypes, qt)
	}
	sort.Strings(questionTypes)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Question type", "Correct", "Total", "Accuracy"})
	for _, qt := range questionTypes {
		ts := s.QuestionTypes[qt]
		t.AppendRow(table.Row{qt, ts.Correct, ts.Total, fmt.Sprintf("%.3f", ts.Accuracy())})
	}
	t.Render()
}
