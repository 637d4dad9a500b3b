package llm

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/spiqa/internal/models"
)

func TestNewWithConfigTextOnly(t *testing.T) {
	client, err := NewWithConfig(ClientConfig{
		BaseURL:     "http://localhost:11434",
		Model:       "qwen2.5:7b-instruct",
		Temperature: 0.1,
	})
	require.NoError(t, err)
	assert.False(t, client.HasVision())
	assert.Equal(t, "", client.VisionModel())
}

func TestNewWithConfigOllamaVision(t *testing.T) {
	client, err := NewWithConfig(ClientConfig{
		BaseURL:     "http://localhost:11434",
		VisionModel: "llava:7b",
	})
	require.NoError(t, err)
	assert.True(t, client.HasVision())
	assert.Equal(t, "llava:7b", client.VisionModel())
}

func TestNewWithConfigAzureTakesPrecedence(t *testing.T) {
	client, err := NewWithConfig(ClientConfig{
		BaseURL:     "http://localhost:11434",
		VisionModel: "llava:7b",
		Azure: AzureConfig{
			Endpoint:   "https://example.openai.azure.com",
			APIKey:     "secret",
			APIVersion: "2024-02-01",
			Deployment: "gpt-4o",
		},
	})
	require.NoError(t, err)
	assert.True(t, client.HasVision())
	assert.Equal(t, "gpt-4o", client.VisionModel())
}

func TestNewWithConfigRejectsBadValues(t *testing.T) {
	_, err := NewWithConfig(ClientConfig{Temperature: 1.5})
	assert.Error(t, err)

	_, err = NewWithConfig(ClientConfig{MaxTokens: -1})
	assert.Error(t, err)
}

func TestAzureConfigured(t *testing.T) {
	assert.False(t, AzureConfig{}.Configured())
	assert.False(t, AzureConfig{Endpoint: "https://x", APIKey: "k"}.Configured())
	assert.True(t, AzureConfig{Endpoint: "https://x", APIKey: "k", Deployment: "d"}.Configured())
}

func TestImagePartPerProvider(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	msg := models.VisionMessage{
		ImageB64: base64.StdEncoding.EncodeToString(raw),
		MIMEType: "image/jpeg",
	}

	azure := &Client{visionKind: visionAzure}
	part, err := azure.imagePart(msg)
	require.NoError(t, err)
	urlPart, ok := part.(llms.ImageURLContent)
	require.True(t, ok)
	assert.Equal(t, "data:image/jpeg;base64,"+msg.ImageB64, urlPart.URL)

	local := &Client{visionKind: visionOllama}
	part, err = local.imagePart(msg)
	require.NoError(t, err)
	binPart, ok := part.(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", binPart.MIMEType)
	assert.Equal(t, raw, binPart.Data)
}

func TestImagePartRejectsBadBase64(t *testing.T) {
	local := &Client{visionKind: visionOllama}
	_, err := local.imagePart(models.VisionMessage{ImageB64: "not base64!!"})
	assert.Error(t, err)
}

func TestChatRole(t *testing.T) {
	assert.Equal(t, llms.ChatMessageTypeSystem, chatRole(models.RoleSystem))
	assert.Equal(t, llms.ChatMessageTypeHuman, chatRole(models.RoleUser))
	assert.Equal(t, llms.ChatMessageTypeAI, chatRole(models.RoleAssistant))
}
