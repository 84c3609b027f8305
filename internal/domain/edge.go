package domain

// EdgeTypeSmooth is the rendering hint applied to user-drawn connections.
const EdgeTypeSmooth = "smooth"

// Edge is a directed connection between two nodes.
// Type is a rendering hint only and carries no semantics.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}
