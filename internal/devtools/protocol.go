// Package devtools implements SPEC_FULL.md §4.16's debug surface: one
// websocket endpoint per running fetch+render pipeline invocation,
// exposing the pipeline's intermediate artifacts as {type, ...} JSON
// envelopes, grounded on internal/ws/protocol.go's message-type-constant
// convention.
package devtools

// Message types for the devtools protocol, per SPEC_FULL.md §4.16.
const (
	TypeDOMSnapshot         = "dom.snapshot"
	TypeStyleSnapshot       = "style.snapshot"
	TypeLayoutSnapshot      = "layout.snapshot"
	TypeDisplayListSnapshot = "displaylist.snapshot"
	TypeLogLine             = "log.line"
	TypeNetEvent            = "net.event"
)

// Envelope wraps every devtools message with a type field for routing,
// mirroring internal/ws.Envelope.
type Envelope struct {
	Type string `json:"type"`
}

// DOMSnapshot reports the parsed document tree's shape.
type DOMSnapshot struct {
	Type      string `json:"type"`
	NodeCount int    `json:"node_count"`
	Outline   string `json:"outline"` // indented tag-name tree, for quick visual inspection
}

// StyleSnapshot reports how many elements received computed styles and
// how many stylesheet rules were in play.
type StyleSnapshot struct {
	Type          string `json:"type"`
	StyledCount   int    `json:"styled_count"`
	RuleCount     int    `json:"rule_count"`
	MatchedRules  int    `json:"matched_rules"`
}

// LayoutSnapshot reports the box tree's overall geometry.
type LayoutSnapshot struct {
	Type      string  `json:"type"`
	BoxCount  int     `json:"box_count"`
	RootWidth float64 `json:"root_width"`
	RootHeight float64 `json:"root_height"`
}

// DisplayListSnapshot reports the paint display list's item breakdown.
type DisplayListSnapshot struct {
	Type       string         `json:"type"`
	ItemCount  int            `json:"item_count"`
	KindCounts map[string]int `json:"kind_counts"`
}

// LogLine carries one free-form log message from the pipeline, mirroring
// internal/logger's structured levels.
type LogLine struct {
	Type    string `json:"type"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NetEvent reports one phase transition (start, done or error) for a fetch,
// per spec.md §5's suspension points and internal/netfetch.Response's
// RequestID correlation.
type NetEvent struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Phase     string `json:"phase"` // "fetch_start", "fetch_done", "fetch_error"
	URL       string `json:"url,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
