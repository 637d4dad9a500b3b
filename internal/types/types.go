package types

import (
	"context"

	"github.com/xhad/spiqa/internal/models"
)

// Core interfaces

// Backend is the uniform surface the answer pipeline talks to. Provider
// selection happens once at construction; callers never branch on provider
// identity. GenerateVision is only callable when HasVision reports true.
type Backend interface {
	GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error)
	GenerateVision(ctx context.Context, messages []models.VisionMessage) (string, error)
	HasVision() bool
}

// ImageLoader builds the per-paper image payload. Figures that cannot be read
// are skipped, never fatal.
type ImageLoader interface {
	LoadImages(paperID string, figures map[string]models.Figure) models.ImagePayload
}

// Pipeline answers and grades one question. It returns exactly one result per
// question: either a graded verdict or a captured error, never an exception
// across the batch boundary.
type Pipeline interface {
	Answer(ctx context.Context, paperID string, index int, q models.Question, images models.ImagePayload) models.EvaluationResult
}
