package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/spiqa/internal/models"
)

// GenerateVision performs exactly one vision call with a prebuilt ordered
// message list. The first stage of the extract-then-reason protocol sends an
// image-bearing user turn; any later turns are plain text.
func (c *Client) GenerateVision(ctx context.Context, messages []models.VisionMessage) (string, error) {
	if c.visionKind == visionNone {
		return "", ErrVisionNotConfigured
	}
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		mc := llms.MessageContent{Role: chatRole(m.Role)}
		if m.Text != "" {
			mc.Parts = append(mc.Parts, llms.TextPart(m.Text))
		}
		if m.ImageB64 != "" {
			part, err := c.imagePart(m)
			if err != nil {
				return "", err
			}
			mc.Parts = append(mc.Parts, part)
		}
		content = append(content, mc)
	}

	response, err := c.vision.GenerateContent(ctx, content, c.visionOpts...)
	if err != nil {
		return "", fmt.Errorf("vision generation: %w", err)
	}

	return firstChoice(response)
}

// imagePart encodes the image for the resolved provider: Azure takes a
// data-URI image_url part, Ollama takes the raw bytes.
func (c *Client) imagePart(m models.VisionMessage) (llms.ContentPart, error) {
	mime := m.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	if c.visionKind == visionAzure {
		return llms.ImageURLPart(fmt.Sprintf("data:%s;base64,%s", mime, m.ImageB64)), nil
	}

	data, err := base64.StdEncoding.DecodeString(m.ImageB64)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return llms.BinaryPart(mime, data), nil
}

func chatRole(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
