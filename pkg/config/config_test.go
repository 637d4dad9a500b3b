package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_BINDING_HOST", "LLM_MODEL", "VISION_MODEL",
		"AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY",
		"AZURE_OPENAI_API_VERSION", "AZURE_OPENAI_VISION_DEPLOYMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  base_url: "http://ollama:11434"
  model: "qwen2.5:7b-instruct"
  max_tokens: 1024
  temperature: 0.2
  timeout_seconds: 120
  rate_limit: 1.5

vision:
  model: "llava:7b"

dataset:
  path: "data/SPIQA_testA.json"
  image_root: "data/SPIQA_testA_Images"

eval:
  similarity_threshold: 0.8
  results_file: "out.json"
  final_results_file: "out_final.json"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "qwen2.5:7b-instruct", config.LLM.Model)
	assert.Equal(t, 1024, config.LLM.MaxTokens)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, 120, config.LLM.TimeoutSecs)
	assert.Equal(t, 1.5, config.LLM.RateLimit)
	assert.Equal(t, "llava:7b", config.Vision.Model)
	assert.Equal(t, "data/SPIQA_testA.json", config.Dataset.Path)
	assert.Equal(t, 0.8, config.Eval.SimilarityThreshold)
	assert.Equal(t, "out.json", config.Eval.ResultsFile)
	assert.True(t, config.VisionConfigured())
	assert.False(t, config.AzureConfigured())
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "qwen2.5:7b-instruct", config.LLM.Model)
	assert.Equal(t, 2048, config.LLM.MaxTokens)
	assert.Equal(t, 0.1, config.LLM.Temperature)
	assert.Equal(t, 240, config.LLM.TimeoutSecs)
	assert.Equal(t, "2024-02-01", config.Azure.APIVersion)
	assert.Equal(t, 0.7, config.Eval.SimilarityThreshold)
	assert.Equal(t, "spiqa_results.json", config.Eval.ResultsFile)
	assert.Equal(t, "spiqa_results_final.json", config.Eval.FinalResultsFile)
	assert.False(t, config.VisionConfigured())
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_BINDING_HOST", "http://env-ollama:11434")
	t.Setenv("VISION_MODEL", "llama3.2-vision:11b")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
	t.Setenv("AZURE_OPENAI_VISION_DEPLOYMENT", "gpt-4o")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "llama3.2-vision:11b", config.Vision.Model)
	assert.Equal(t, "https://env.openai.azure.com", config.Azure.Endpoint)
	assert.Equal(t, "secret", config.Azure.APIKey)
	assert.Equal(t, "gpt-4o", config.Azure.Deployment)
	assert.True(t, config.AzureConfigured())
}

func TestConfigValidation(t *testing.T) {
	clearEnv(t)

	valid, err := getDefaultConfig()
	require.NoError(t, err)
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "missing base url",
			mutate: func(c *Config) { c.LLM.BaseURL = "" },
			field:  "llm.base_url",
		},
		{
			name:   "max tokens out of range",
			mutate: func(c *Config) { c.LLM.MaxTokens = 100000 },
			field:  "llm.max_tokens",
		},
		{
			name:   "temperature out of range",
			mutate: func(c *Config) { c.LLM.Temperature = 3.0 },
			field:  "llm.temperature",
		},
		{
			name:   "non-positive timeout",
			mutate: func(c *Config) { c.LLM.TimeoutSecs = 0 },
			field:  "llm.timeout_seconds",
		},
		{
			name:   "negative rate limit",
			mutate: func(c *Config) { c.LLM.RateLimit = -1 },
			field:  "llm.rate_limit",
		},
		{
			name:   "partial azure config",
			mutate: func(c *Config) { c.Azure.Endpoint = "https://x.openai.azure.com" },
			field:  "azure",
		},
		{
			name:   "missing dataset path",
			mutate: func(c *Config) { c.Dataset.Path = "" },
			field:  "dataset.path",
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Eval.SimilarityThreshold = 1.5 },
			field:  "eval.similarity_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := getDefaultConfig()
			require.NoError(t, err)
			tt.mutate(config)

			errors := config.Validate()
			require.Len(t, errors, 1)
			assert.Equal(t, tt.field, errors[0].Field)
		})
	}
}
