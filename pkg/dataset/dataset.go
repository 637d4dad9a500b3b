package dataset

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xhad/spiqa/internal/models"
)

// Load reads the dataset file: a mapping from paper id to paper, each with
// figure metadata under all_figures and an ordered question list under qa.
func Load(path string) (map[string]models.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var papers map[string]models.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return papers, nil
}

// ImageRootExists reports whether the image root is a directory containing at
// least one entry. A missing or empty root puts the run in text-only mode.
func ImageRootExists(root string) bool {
	if root == "" {
		return false
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	return len(entries) > 0
}

// Loader loads figure images from disk into base64 payloads.
type Loader struct {
	imageRoot string
}

// NewLoader creates a Loader rooted at imageRoot. An empty root yields empty
// payloads, which forces every question down the text-only route.
func NewLoader(imageRoot string) *Loader {
	return &Loader{imageRoot: imageRoot}
}

// LoadImages builds the image payload for one paper. The resolved path for a
// figure is {image_root}/{paper_id}/{figure_id}. Figures that cannot be read
// are logged and skipped; the figure is simply absent from the payload.
func (l *Loader) LoadImages(paperID string, figures map[string]models.Figure) models.ImagePayload {
	images := make(models.ImagePayload)
	if l.imageRoot == "" {
		return images
	}

	for figID := range figures {
		path := filepath.Join(l.imageRoot, paperID, figID)
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping figure", "paper", paperID, "figure", figID, "error", err)
			continue
		}
		images[figID] = base64.StdEncoding.EncodeToString(data)
	}

	return images
}
