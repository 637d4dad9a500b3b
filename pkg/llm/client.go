package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// ClientConfig represents the configuration for a backend client.
type ClientConfig struct {
	BaseURL     string // Ollama server URL
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	RateLimit   float64 // backend calls per second, 0 disables pacing

	VisionModel       string
	VisionTemperature float64

	Azure AzureConfig
}

// AzureConfig holds the managed-cloud vision provider settings. When fully
// specified it takes precedence over the self-hosted vision model.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

// Configured reports whether all required Azure settings are present.
func (a AzureConfig) Configured() bool {
	return a.Endpoint != "" && a.APIKey != "" && a.Deployment != ""
}

type visionKind int

const (
	visionNone visionKind = iota
	visionOllama
	visionAzure
)

// Client implements the two backend capabilities on top of langchaingo
// providers. The vision provider is resolved once at construction into a
// tagged choice; callers never branch on provider identity again.
type Client struct {
	text        llms.Model
	vision      llms.Model
	visionKind  visionKind
	visionModel string
	textOpts    []llms.CallOption
	visionOpts  []llms.CallOption
	limiter     *rate.Limiter
}

// NewWithConfig creates a new Client with the given configuration.
func NewWithConfig(config ClientConfig) (*Client, error) {
	// Validate and set default values for config fields if necessary
	if config.Model == "" {
		config.Model = "qwen2.5:7b-instruct"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}
	if config.Timeout == 0 {
		config.Timeout = 240 * time.Second
	}

	httpClient := &http.Client{Timeout: config.Timeout}

	text, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
		ollama.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text LLM: %w", err)
	}

	c := &Client{
		text: text,
		textOpts: []llms.CallOption{
			llms.WithTemperature(config.Temperature),
			llms.WithMaxTokens(config.MaxTokens),
			llms.WithTopP(0.9),
		},
		visionOpts: []llms.CallOption{
			llms.WithTemperature(config.VisionTemperature),
			llms.WithTopP(0.1),
		},
	}

	if config.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	switch {
	case config.Azure.Configured():
		vision, err := openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithBaseURL(config.Azure.Endpoint),
			openai.WithToken(config.Azure.APIKey),
			openai.WithAPIVersion(config.Azure.APIVersion),
			openai.WithModel(config.Azure.Deployment),
			openai.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Azure vision LLM: %w", err)
		}
		c.vision = vision
		c.visionKind = visionAzure
		c.visionModel = config.Azure.Deployment
	case config.VisionModel != "":
		vision, err := ollama.New(ollama.WithModel(config.VisionModel),
			ollama.WithServerURL(config.BaseURL),
			ollama.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vision LLM: %w", err)
		}
		c.vision = vision
		c.visionKind = visionOllama
		c.visionModel = config.VisionModel
	}

	return c, nil
}

// HasVision reports whether a vision-capable provider was configured.
func (c *Client) HasVision() bool {
	return c.visionKind != visionNone
}

// VisionModel returns the configured vision model or deployment name.
func (c *Client) VisionModel() string {
	return c.visionModel
}

// GenerateText performs exactly one text-generation call. Failures are
// returned as errors, never panics; the caller records them per question.
func (c *Client) GenerateText(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	var content []llms.MessageContent
	if systemPrompt != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	response, err := c.text.GenerateContent(ctx, content, c.textOpts...)
	if err != nil {
		return "", fmt.Errorf("text generation: %w", err)
	}

	return firstChoice(response)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func firstChoice(response *llms.ContentResponse) (string, error) {
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
