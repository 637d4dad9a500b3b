package models

import "fmt"

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeOpenEnded      = "open_ended"
)

// Extraction is the structured output of the vision stage. When the model
// response does not parse as JSON only Raw carries the response text and
// FinalAnswer is treated as absent.
type Extraction struct {
	Caption     string         `json:"caption"`
	KeyValues   map[string]any `json:"key_values"`
	Trends      string         `json:"trends"`
	Cells       map[string]any `json:"cells"`
	Units       string         `json:"units"`
	FinalAnswer string         `json:"final_answer"`

	Raw string `json:"-"`
}

// Evaluation holds the graded verdict for one answered question.
type Evaluation struct {
	IsCorrect       bool    `json:"is_correct"`
	SimilarityScore float64 `json:"similarity_score"`
	PhraseOverlap   float64 `json:"phrase_overlap"`
}

// ParsedLetters records the option letters recovered from free text, when any.
type ParsedLetters struct {
	PredLetter string `json:"pred_letter,omitempty"`
	GTLetter   string `json:"gt_letter,omitempty"`
}

// EvaluationResult is the per-question record written to the result artifact.
// Exactly one of Evaluation or Error is populated; an errored question carries
// no verdict and a graded question carries no error.
type EvaluationResult struct {
	PaperID          string         `json:"paper_id"`
	QuestionIndex    int            `json:"question_index"`
	Question         string         `json:"question"`
	GroundTruth      string         `json:"ground_truth"`
	PredictedAnswer  string         `json:"predicted_answer,omitempty"`
	Explanation      string         `json:"explanation,omitempty"`
	Reference        string         `json:"reference,omitempty"`
	Evaluation       *Evaluation    `json:"evaluation,omitempty"`
	QuestionType     string         `json:"question_type,omitempty"`
	Parsed           *ParsedLetters `json:"parsed,omitempty"`
	VisionExtraction string         `json:"vision_extraction,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// Key returns the artifact key for this result.
func (r EvaluationResult) Key() string {
	return fmt.Sprintf("%s_q%d", r.PaperID, r.QuestionIndex)
}

// Failed reports whether the question errored instead of being graded.
func (r EvaluationResult) Failed() bool {
	return r.Error != ""
}
