package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// VisionMessage is one role-tagged turn of a vision conversation. ImageB64,
// when set, attaches an encoded image to the turn; MIMEType describes it.
type VisionMessage struct {
	Role     string
	Text     string
	ImageB64 string
	MIMEType string
}
