package models

// ChatMessage is one prior turn of the conversation, supplied by the client
type ChatMessage struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Response types
const (
	ResponseText       = "text"
	ResponseInsight    = "insight"
	ResponseWarning    = "warning"
	ResponseSuggestion = "suggestion"
)

// Source points at a record a response was computed from
type Source struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// EngineResponse is the envelope returned for every answered query.
// The JSON shape is a stable contract for the UI.
type EngineResponse struct {
	Text         string   `json:"text"`
	Type         string   `json:"type"`
	QuickActions []string `json:"quick_actions"`
	Sources      []Source `json:"sources,omitempty"`
}
