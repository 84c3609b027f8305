// Package canvas bridges the authoritative graph store with an
// interactive rendering surface that keeps its own transient copy of
// the graph for drag responsiveness.
package canvas

import "github.com/abzali/cue/internal/domain"

// Surface is the rendering side of the synchronization layer. The
// store pushes full replacements into it; the surface reports
// user-initiated structural changes back through Callbacks.
//
// Implementations must render a placeholder state when the node set is
// empty and must not re-emit callbacks for programmatic Set* calls.
type Surface interface {
	// SetGraph fully replaces the transient node/edge copy.
	SetGraph(nodes []domain.Node, edges []domain.Edge, selected string)

	// SetViewport overwrites the camera state.
	SetViewport(vp domain.Viewport)
}

// Callbacks carries the surface-originated events back toward the
// store. All callbacks are optional.
type Callbacks struct {
	// OnConnect fires when the user draws a link between two node
	// handles.
	OnConnect func(source, target string)

	// OnPositionsCommitted fires once per completed drag gesture with
	// the full node position set. Intermediate drag frames stay on the
	// surface.
	OnPositionsCommitted func(positions map[string]domain.Position)

	// OnViewportChanged fires on every pan/zoom event.
	OnViewportChanged func(vp domain.Viewport)

	// OnNodeSelected fires when a node is tapped; an empty id means
	// the background was tapped.
	OnNodeSelected func(id string)

	// OnNodeExpandToggled fires when a node card is expanded or
	// collapsed.
	OnNodeExpandToggled func(id string, expanded bool)
}
