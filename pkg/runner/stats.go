package runner

import (
	"github.com/xhad/spiqa/internal/models"
)

// TypeStats counts outcomes for one question type.
type TypeStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Accuracy returns the fraction of correct answers for the type.
func (t TypeStats) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// PaperStats summarizes one completed paper.
type PaperStats struct {
	TotalQuestions   int     `json:"total_questions"`
	CorrectQuestions int     `json:"correct_questions"`
	Accuracy         float64 `json:"accuracy"`
}

// Stats accumulates the running counters for one run. It is owned by the
// Runner, mutated only through Record and FinishPaper, and discarded after
// the final summary is emitted.
type Stats struct {
	Processed int
	Failed    int
	Correct   int

	QuestionTypes map[string]*TypeStats
	Papers        map[string]PaperStats

	similaritySum float64
	overlapSum    float64
}

func NewStats() *Stats {
	return &Stats{
		QuestionTypes: make(map[string]*TypeStats),
		Papers:        make(map[string]PaperStats),
	}
}

// Record folds one question's result into the running counters.
func (s *Stats) Record(res models.EvaluationResult) {
	if res.Failed() || res.Evaluation == nil {
		s.Failed++
		return
	}

	s.Processed++
	s.similaritySum += res.Evaluation.SimilarityScore
	s.overlapSum += res.Evaluation.PhraseOverlap

	ts := s.QuestionTypes[res.QuestionType]
	if ts == nil {
		ts = &TypeStats{}
		s.QuestionTypes[res.QuestionType] = ts
	}
	ts.Total++

	if res.Evaluation.IsCorrect {
		s.Correct++
		ts.Correct++
	}
}

// FinishPaper stores the per-paper accuracy once a paper completes.
func (s *Stats) FinishPaper(paperID string, total, correct int) {
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	s.Papers[paperID] = PaperStats{
		TotalQuestions:   total,
		CorrectQuestions: correct,
		Accuracy:         accuracy,
	}
}

// OverallAccuracy is correct answers over successfully processed questions.
func (s *Stats) OverallAccuracy() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Processed)
}

// AvgSimilarity is the mean similarity score over processed questions.
func (s *Stats) AvgSimilarity() float64 {
	if s.Processed == 0 {
		return 0
	}
	return s.similaritySum / float64(s.Processed)
}

// AvgPhraseOverlap is the mean phrase overlap over processed questions.
func (s *Stats) AvgPhraseOverlap() float64 {
	if s.Processed == 0 {
		return 0
	}
	return s.overlapSum / float64(s.Processed)
}
