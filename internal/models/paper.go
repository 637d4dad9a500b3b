package models

// Paper is one entry of the dataset file: figure metadata keyed by figure id
// plus the ordered list of questions about the paper. Immutable once loaded.
type Paper struct {
	AllFigures map[string]Figure `json:"all_figures"`
	QA         []Question        `json:"qa"`
}

// Figure carries the metadata recorded for a figure or table. The figure id
// doubles as the on-disk file name under {image_root}/{paper_id}/.
type Figure struct {
	Caption     string `json:"caption,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	FigureType  string `json:"figure_type,omitempty"`
}

// Question is a single QA pair. Reference, when set, names a key in the
// paper's figure map; a reference that does not resolve to a loaded image is
// not an error, the question falls back to text-only reasoning.
type Question struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// ImagePayload maps figure id to base64-encoded image bytes for one paper.
// Built lazily per paper and discarded once the paper completes.
type ImagePayload map[string]string
