package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.TimeoutSecs < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	if c.LLM.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.rate_limit",
			Message: "rate_limit cannot be negative",
		})
	}

	// Validate Azure config: either fully specified or absent
	azureFields := 0
	if c.Azure.Endpoint != "" {
		azureFields++
	}
	if c.Azure.APIKey != "" {
		azureFields++
	}
	if c.Azure.Deployment != "" {
		azureFields++
	}
	if azureFields > 0 && azureFields < 3 {
		errors = append(errors, ValidationError{
			Field:   "azure",
			Message: "endpoint, api_key and deployment must all be set to use Azure vision",
		})
	}

	// Validate Dataset config
	if c.Dataset.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "dataset.path",
			Message: "dataset path is required",
		})
	}

	// Validate Eval config
	if c.Eval.SimilarityThreshold <= 0 || c.Eval.SimilarityThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "eval.similarity_threshold",
			Message: "similarity_threshold must be in (0, 1]",
		})
	}

	if c.Eval.ResultsFile == "" {
		errors = append(errors, ValidationError{
			Field:   "eval.results_file",
			Message: "results_file is required",
		})
	}

	return errors
}
