package canvas

import (
	"log/slog"
	"sync"

	"github.com/abzali/cue/internal/domain"
	"github.com/abzali/cue/internal/graph"
)

// State is the canvas lifecycle state. There is no error state:
// validation problems render as per-node status, not canvas-wide.
type State string

const (
	StateIdle      State = "idle"
	StatePopulated State = "populated"
)

// Synchronizer reconciles the graph store with a Surface. Sync is
// one-directional store→surface (full replace on every authoritative
// change); surface gestures flow back through the Handle* methods in
// the order they occurred, guarded against feedback loops.
type Synchronizer struct {
	store   *graph.Store
	surface Surface
	logger  *slog.Logger

	mu      sync.Mutex
	syncing bool
	state   State
}

// NewSynchronizer wires the store's change notifications to the
// surface and performs an initial refresh.
func NewSynchronizer(store *graph.Store, surface Surface, logger *slog.Logger) *Synchronizer {
	s := &Synchronizer{
		store:   store,
		surface: surface,
		logger:  logger,
		state:   StateIdle,
	}
	store.OnChange(s.Refresh)
	s.Refresh()
	return s
}

// Callbacks returns the surface callback set routing gestures into the
// store. Pass this to the Surface implementation.
func (s *Synchronizer) Callbacks() Callbacks {
	return Callbacks{
		OnConnect:            s.handleConnect,
		OnPositionsCommitted: s.handlePositionsCommitted,
		OnViewportChanged:    s.handleViewportChanged,
		OnNodeSelected:       s.handleNodeSelected,
		OnNodeExpandToggled:  s.handleExpandToggled,
	}
}

// State returns the current canvas lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh pushes the authoritative graph into the surface as a full
// replacement of the transient copy.
func (s *Synchronizer) Refresh() {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	nodes := s.store.Nodes()
	edges := s.store.Edges()

	s.surface.SetGraph(nodes, edges, s.store.Selected())
	s.surface.SetViewport(s.store.Viewport())

	s.setState(nodes)
}

func (s *Synchronizer) setState(nodes []domain.Node) {
	next := StateIdle
	if len(nodes) > 0 {
		next = StatePopulated
	}
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	if prev != next {
		s.logger.Debug("canvas state changed",
			slog.String("from", string(prev)),
			slog.String("to", string(next)))
	}
}

// guarded skips surface-originated writes that are really echoes of a
// programmatic surface update.
func (s *Synchronizer) guarded(fn func()) {
	s.mu.Lock()
	busy := s.syncing
	s.mu.Unlock()
	if busy {
		return
	}
	fn()
}

func (s *Synchronizer) handleConnect(source, target string) {
	s.guarded(func() {
		if _, ok := s.store.Connect(source, target); !ok {
			s.logger.Debug("connection refused",
				slog.String("source", source),
				slog.String("target", target))
		}
	})
}

func (s *Synchronizer) handlePositionsCommitted(positions map[string]domain.Position) {
	s.guarded(func() {
		s.store.SetPositions(positions)
	})
}

func (s *Synchronizer) handleViewportChanged(vp domain.Viewport) {
	s.guarded(func() {
		s.store.SetViewport(vp)
	})
}

func (s *Synchronizer) handleNodeSelected(id string) {
	s.guarded(func() {
		s.store.SetSelected(id)
	})
}

func (s *Synchronizer) handleExpandToggled(id string, expanded bool) {
	s.guarded(func() {
		v := expanded
		s.store.UpdateNodeData(id, domain.NodeDataPatch{IsExpanded: &v})
	})
}
