package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

var (
	// ErrVisionNotConfigured means images are present but no vision backend
	// was configured.
	ErrVisionNotConfigured = errors.New("no vision backend configured")
	// ErrProviderUnreachable means the model listing could not be fetched.
	ErrProviderUnreachable = errors.New("cannot reach model provider")
	// ErrModelNotInstalled means the configured vision model is not present
	// on the provider.
	ErrModelNotInstalled = errors.New("vision model not installed")
)

// PreflightConfig describes what the run-start capability check needs.
type PreflightConfig struct {
	BaseURL         string
	VisionModel     string
	AzureConfigured bool
	Timeout         time.Duration
}

// Preflight is the hard gate run before any question is processed. When the
// image root is absent the run proceeds text-only and vision is optional.
// When it is present a vision backend must be configured: Azure passes as-is
// (managed deployments expose no tag listing), the self-hosted model must
// appear in the provider's model listing. Any failure here aborts the whole
// run; after Preflight passes, per-call failures are non-fatal.
func Preflight(ctx context.Context, config PreflightConfig, imageRootExists bool) error {
	if !imageRootExists {
		return nil
	}

	if config.AzureConfigured {
		return nil
	}

	if config.VisionModel == "" {
		return ErrVisionNotConfigured
	}

	names, err := ListModels(ctx, config.BaseURL, config.Timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	if !slices.Contains(names, config.VisionModel) {
		return fmt.Errorf("%w: %s", ErrModelNotInstalled, config.VisionModel)
	}

	return nil
}

// ListModels returns the models available on an Ollama host.
func ListModels(ctx context.Context, baseURL string, timeout time.Duration) ([]string, error) {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	url := strings.TrimRight(baseURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var names []string
	for _, m := range payload.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
