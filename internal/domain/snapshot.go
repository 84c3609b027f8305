package domain

import "time"

// Viewport is the pan/zoom camera state of the graph canvas. It is
// persisted with the graph but carries no meaning for other components.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport returns the origin camera at 1:1 zoom.
func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// Snapshot is the durable workspace unit: description, graph, credential
// values and generated output, keyed by user (or guest) identity.
type Snapshot struct {
	WorkflowDescription string            `json:"workflowDescription"`
	Nodes               []Node            `json:"nodes"`
	Edges               []Edge            `json:"edges"`
	Credentials         map[string]string `json:"credentials,omitempty"`
	GeneratedCode       string            `json:"generatedCode,omitempty"`
	Instructions        string            `json:"instructions,omitempty"`
	Viewport            *Viewport         `json:"viewport,omitempty"`
	LastSaved           time.Time         `json:"lastSaved"`
}

// SnapshotPatch is a partial snapshot merged into the stored copy on
// save. Nil fields are left unchanged.
type SnapshotPatch struct {
	WorkflowDescription *string
	Nodes               []Node
	Edges               []Edge
	Credentials         map[string]string
	GeneratedCode       *string
	Instructions        *string
	Viewport            *Viewport
}

// Merge applies the patch to the snapshot in place.
func (s *Snapshot) Merge(p SnapshotPatch) {
	if p.WorkflowDescription != nil {
		s.WorkflowDescription = *p.WorkflowDescription
	}
	if p.Nodes != nil {
		s.Nodes = p.Nodes
	}
	if p.Edges != nil {
		s.Edges = p.Edges
	}
	if p.Credentials != nil {
		s.Credentials = p.Credentials
	}
	if p.GeneratedCode != nil {
		s.GeneratedCode = *p.GeneratedCode
	}
	if p.Instructions != nil {
		s.Instructions = *p.Instructions
	}
	if p.Viewport != nil {
		vp := *p.Viewport
		s.Viewport = &vp
	}
}
