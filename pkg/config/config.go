package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		TimeoutSecs int     `yaml:"timeout_seconds"`
		RateLimit   float64 `yaml:"rate_limit"`
	} `yaml:"llm"`

	Vision struct {
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"vision"`

	Azure struct {
		Endpoint   string `yaml:"endpoint"`
		APIKey     string `yaml:"api_key"`
		APIVersion string `yaml:"api_version"`
		Deployment string `yaml:"deployment"`
	} `yaml:"azure"`

	Dataset struct {
		Path      string `yaml:"path"`
		ImageRoot string `yaml:"image_root"`
	} `yaml:"dataset"`

	Eval struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		ResultsFile         string  `yaml:"results_file"`
		FinalResultsFile    string  `yaml:"final_results_file"`
	} `yaml:"eval"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/spiqa/config.yaml"),
			"/etc/spiqa/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

// AzureConfigured reports whether the managed-cloud vision provider is fully
// specified. Partial settings fall back to the self-hosted provider.
func (c *Config) AzureConfigured() bool {
	return c.Azure.Endpoint != "" && c.Azure.APIKey != "" && c.Azure.Deployment != ""
}

// VisionConfigured reports whether any vision-capable backend is available.
func (c *Config) VisionConfigured() bool {
	return c.AzureConfigured() || c.Vision.Model != ""
}

func applyDefaults(config *Config) {
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "qwen2.5:7b-instruct"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2048
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}
	if config.LLM.TimeoutSecs == 0 {
		config.LLM.TimeoutSecs = 240
	}

	if config.Azure.APIVersion == "" {
		config.Azure.APIVersion = "2024-02-01"
	}

	if config.Dataset.Path == "" {
		config.Dataset.Path = "dataset/test-A/SPIQA_testA.json"
	}
	if config.Dataset.ImageRoot == "" {
		config.Dataset.ImageRoot = "dataset/test-A/SPIQA_testA_Images"
	}

	if config.Eval.SimilarityThreshold == 0 {
		config.Eval.SimilarityThreshold = 0.7
	}
	if config.Eval.ResultsFile == "" {
		config.Eval.ResultsFile = "spiqa_results.json"
	}
	if config.Eval.FinalResultsFile == "" {
		config.Eval.FinalResultsFile = "spiqa_results_final.json"
	}
}

func mergeWithEnv(config *Config) {
	if host := os.Getenv("LLM_BINDING_HOST"); host != "" {
		config.LLM.BaseURL = host
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if model := os.Getenv("VISION_MODEL"); model != "" {
		config.Vision.Model = model
	}
	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		config.Azure.Endpoint = endpoint
	}
	if key := os.Getenv("AZURE_OPENAI_API_KEY"); key != "" {
		config.Azure.APIKey = key
	}
	if version := os.Getenv("AZURE_OPENAI_API_VERSION"); version != "" {
		config.Azure.APIVersion = version
	}
	if deployment := os.Getenv("AZURE_OPENAI_VISION_DEPLOYMENT"); deployment != "" {
		config.Azure.Deployment = deployment
	}
}
