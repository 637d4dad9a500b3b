package eval

import (
	"github.com/xhad/spiqa/internal/models"
)

// DefaultSimilarityThreshold is the similarity score at or above which an
// open-ended answer is graded correct.
const DefaultSimilarityThreshold = 0.7

// Grader converts raw predicted answers into graded verdicts.
type Grader struct {
	threshold float64
}

// NewGrader creates a Grader with the given similarity threshold. A
// non-positive threshold falls back to the default.
func NewGrader(threshold float64) *Grader {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Grader{threshold: threshold}
}

// Verdict is the outcome of grading one predicted answer.
type Verdict struct {
	Evaluation   models.Evaluation
	QuestionType string
	Letters      models.ParsedLetters
}

// Grade normalizes predicted and ground-truth text and decides correctness.
// The default rule is similarity >= threshold. Multiple-choice questions
// where a letter was recovered on both sides are instead graded by exact
// letter equality, which is strictly more reliable than string similarity on
// full text for that question type.
func (g *Grader) Grade(questionText, predicted, truth string) Verdict {
	normPred := NormalizeText(predicted)
	normTruth := NormalizeText(truth)
	predLetter := ExtractOptionLetter(predicted)
	truthLetter := ExtractOptionLetter(truth)
	isMC := IsMultipleChoice(questionText)

	similarity := Similarity(normPred, normTruth)
	overlap := PhraseOverlap(normPred, normTruth)

	correct := similarity >= g.threshold
	if isMC && predLetter != "" && truthLetter != "" {
		correct = predLetter == truthLetter
	}

	questionType := models.QuestionTypeOpenEnded
	if isMC {
		questionType = models.QuestionTypeMultipleChoice
	}

	return Verdict{
		Evaluation: models.Evaluation{
			IsCorrect:       correct,
			SimilarityScore: similarity,
			PhraseOverlap:   overlap,
		},
		QuestionType: questionType,
		Letters: models.ParsedLetters{
			PredLetter: predLetter,
			GTLetter:   truthLetter,
		},
	}
}
