package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagsServer(t *testing.T, names ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[`))
		for i, name := range names {
			if i > 0 {
				w.Write([]byte(","))
			}
			w.Write([]byte(`{"name":"` + name + `"}`))
		}
		w.Write([]byte(`]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestListModels(t *testing.T) {
	server := tagsServer(t, "qwen2.5:7b-instruct", "llava:7b")

	names, err := ListModels(context.Background(), server.URL, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b-instruct", "llava:7b"}, names)
}

func TestListModelsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := ListModels(context.Background(), server.URL, 5*time.Second)
	assert.Error(t, err)
}

func TestPreflightNoImagesSkipsVisionChecks(t *testing.T) {
	// No image root: text-only mode, vision entirely optional, no HTTP calls.
	err := Preflight(context.Background(), PreflightConfig{BaseURL: "http://127.0.0.1:1"}, false)
	assert.NoError(t, err)
}

func TestPreflightRequiresVisionWhenImagesExist(t *testing.T) {
	err := Preflight(context.Background(), PreflightConfig{BaseURL: "http://127.0.0.1:1"}, true)
	assert.ErrorIs(t, err, ErrVisionNotConfigured)
}

func TestPreflightAzurePassesWithoutListing(t *testing.T) {
	// Managed deployments expose no tag listing; presence of the Azure
	// configuration satisfies the gate.
	err := Preflight(context.Background(), PreflightConfig{
		BaseURL:         "http://127.0.0.1:1",
		AzureConfigured: true,
	}, true)
	assert.NoError(t, err)
}

func TestPreflightModelInstalled(t *testing.T) {
	server := tagsServer(t, "llava:7b", "qwen2.5-vl:7b-instruct")

	err := Preflight(context.Background(), PreflightConfig{
		BaseURL:     server.URL,
		VisionModel: "llava:7b",
	}, true)
	assert.NoError(t, err)
}

func TestPreflightModelMissing(t *testing.T) {
	server := tagsServer(t, "qwen2.5:7b-instruct")

	err := Preflight(context.Background(), PreflightConfig{
		BaseURL:     server.URL,
		VisionModel: "llava:7b",
	}, true)
	assert.ErrorIs(t, err, ErrModelNotInstalled)
}

func TestPreflightProviderUnreachable(t *testing.T) {
	server := tagsServer(t, "llava:7b")
	server.Close()

	err := Preflight(context.Background(), PreflightConfig{
		BaseURL:     server.URL,
		VisionModel: "llava:7b",
		Timeout:     time.Second,
	}, true)
	assert.ErrorIs(t, err, ErrProviderUnreachable)
}
