package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xhad/spiqa/internal/models"
	"github.com/xhad/spiqa/internal/types"
)

const answerSystemPrompt = `You are a strict reader of scientific figures and tables.
- For multiple-choice questions, output only the final option letter (A/B/C/D/E), no extra text.
- For open questions, output the terse final value or conclusion directly, keeping units.
- Prefer values and trends read from the provided figure or table; fall back to the question text only when necessary.
- Avoid subjective language on numeric questions; if the evidence is insufficient, answer "cannot determine".`

const extractionSystemPrompt = `You are a figure and table reader. Output strict JSON with no extra text. Fields: {caption:string, key_values:object, trends:string, cells:object, units:string, final_answer:string}.`

// Pipeline answers one question at a time: route decision, the two-stage
// vision extract-then-reason protocol when an image is involved, then
// normalization and grading.
type Pipeline struct {
	backend types.Backend
	grader  *Grader
}

// NewPipeline creates a Pipeline over the given backend and grader.
func NewPipeline(backend types.Backend, grader *Grader) *Pipeline {
	if grader == nil {
		grader = NewGrader(DefaultSimilarityThreshold)
	}
	return &Pipeline{backend: backend, grader: grader}
}

// Answer produces exactly one EvaluationResult for the question. Transport
// and parse failures are captured in the result's error field at the question
// boundary; they never abort the paper or the run.
func (p *Pipeline) Answer(ctx context.Context, paperID string, index int, q models.Question, images models.ImagePayload) models.EvaluationResult {
	result := models.EvaluationResult{
		PaperID:       paperID,
		QuestionIndex: index,
		Question:      q.Question,
		GroundTruth:   q.Answer,
		Explanation:   q.Explanation,
		Reference:     q.Reference,
	}

	userPrompt := buildUserPrompt(q, images)

	// Vision route is taken iff the reference resolves to a loaded image and
	// a vision backend is configured. An unresolved reference degrades to the
	// text-only route with a figure-not-found note, never fails the question.
	useImage := q.Reference != "" && images[q.Reference] != "" && p.backend.HasVision()

	var predicted, extraction string
	var err error
	if useImage {
		predicted, extraction, err = p.answerWithVision(ctx, q, images[q.Reference], userPrompt)
	} else {
		predicted, err = p.backend.GenerateText(ctx, userPrompt, answerSystemPrompt)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	verdict := p.grader.Grade(q.Question, predicted, q.Answer)
	result.PredictedAnswer = predicted
	result.Evaluation = &verdict.Evaluation
	result.QuestionType = verdict.QuestionType
	result.Parsed = &verdict.Letters
	if useImage {
		result.VisionExtraction = extraction
	}
	return result
}

func buildUserPrompt(q models.Question, images models.ImagePayload) string {
	parts := []string{fmt.Sprintf("Question: %s", q.Question)}
	if q.Reference != "" {
		if _, ok := images[q.Reference]; ok {
			parts = append(parts, fmt.Sprintf("Referenced figure: %s (loaded)", q.Reference))
		} else {
			parts = append(parts, fmt.Sprintf("Referenced figure: %s (not found)", q.Reference))
		}
	}
	parts = append(parts, "\nOutput only the answer.")
	return strings.Join(parts, "\n")
}

// answerWithVision runs the two-stage protocol: a structured extraction call
// against the vision model, then a text reasoning call over the extracted
// content. A single vision call asked to both read the figure and reason
// tends to under-perform, so "read" and "decide" are separated; a non-empty
// final_answer in the extraction skips the reasoning stage entirely.
func (p *Pipeline) answerWithVision(ctx context.Context, q models.Question, imageB64, userPrompt string) (predicted, extraction string, err error) {
	messages := []models.VisionMessage{
		{Role: models.RoleSystem, Text: extractionSystemPrompt},
		{
			Role: models.RoleUser,
			Text: userPrompt + "\nFirst extract the key information from the image and return it as JSON. " +
				"If the answer can be determined directly, put it in final_answer.",
			ImageB64: imageB64,
			MIMEType: figureMIME(q.Reference),
		},
	}

	extraction, err = p.backend.GenerateVision(ctx, messages)
	if err != nil {
		return "", "", err
	}

	parsed := parseExtraction(extraction)
	if parsed.FinalAnswer != "" {
		return parsed.FinalAnswer, extraction, nil
	}

	reasoningPrompt := fmt.Sprintf(
		"Extracted figure information (JSON):\n%s\n\nQuestion: %s\nOutput only the final answer.",
		extraction, q.Question)
	predicted, err = p.backend.GenerateText(ctx, reasoningPrompt, answerSystemPrompt)
	if err != nil {
		return "", "", err
	}
	return predicted, extraction, nil
}

// parseExtraction attempts the strict-JSON decode of the vision response.
// Parse failure is not an error condition: the extraction degrades to raw
// text and final_answer is treated as absent.
func parseExtraction(raw string) models.Extraction {
	var ex models.Extraction
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return models.Extraction{Raw: raw}
	}
	ex.Raw = raw
	return ex
}

func figureMIME(figID string) string {
	if strings.HasSuffix(strings.ToLower(figID), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
