// Package graph holds the authoritative in-memory state of the workflow
// graph: nodes, edges, selection and the canvas viewport. The store is an
// injectable container passed explicitly to the components that need it;
// there are no package-level singletons.
package graph

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abzali/cue/internal/domain"
)

// Store is the single source of truth for the workflow graph. All
// mutations are serialized under a mutex and observed by the canvas
// synchronization layer through the change callback.
type Store struct {
	mu       sync.RWMutex
	nodes    []domain.Node
	edges    []domain.Edge
	selected string
	viewport domain.Viewport
	logger   *slog.Logger

	listeners []func()
	edgeSeq   uint64
}

// NewStore creates an empty graph store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		viewport: domain.DefaultViewport(),
		logger:   logger,
	}
}

// OnChange registers an observer invoked after every mutation, in
// registration order. Observers run outside the store lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append(([]func())(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// ReplaceAll wholesale-replaces the node and edge sets, used when a
// generation result arrives. Edges referencing absent node ids are
// pruned so the graph never holds a dangling reference. Selection is
// cleared unless the selected node survives the replacement.
func (s *Store) ReplaceAll(nodes []domain.Node, edges []domain.Edge) {
	s.mu.Lock()
	s.nodes = append([]domain.Node(nil), nodes...)
	s.edges = pruneDangling(append([]domain.Edge(nil), edges...), s.nodes)
	if pruned := len(edges) - len(s.edges); pruned > 0 {
		s.logger.Debug("pruned dangling edges on replace", slog.Int("count", pruned))
	}
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}
	s.mu.Unlock()
	s.notify()
}

// UpdateNodeData merges a partial data patch into the named node.
// Unknown ids are a no-op, never an error: stale references from a
// superseded node set must not crash the caller.
func (s *Store) UpdateNodeData(id string, patch domain.NodeDataPatch) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.nodes[i].Data.Merge(patch)
	s.mu.Unlock()
	s.notify()
}

// SetSelected marks a node as selected. At most one node is selected at
// a time, and selecting the already-selected node deselects it. An
// empty id clears the selection.
func (s *Store) SetSelected(id string) {
	s.mu.Lock()
	if id != "" && id == s.selected {
		s.selected = ""
	} else {
		s.selected = id
	}
	s.mu.Unlock()
	s.notify()
}

// Selected returns the id of the selected node, or "" when none.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetViewport overwrites the camera state unconditionally.
func (s *Store) SetViewport(vp domain.Viewport) {
	s.mu.Lock()
	s.viewport = vp
	s.mu.Unlock()
	s.notify()
}

// Viewport returns the current camera state.
func (s *Store) Viewport() domain.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// AddNode appends a node to the graph. A node without an id is a
// programmer error and is rejected.
func (s *Store) AddNode(n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("add node: id must not be empty")
	}
	s.mu.Lock()
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	s.notify()
	return nil
}

// RemoveNode deletes the node and every edge whose source or target
// references it. The selection is cleared when it pointed at the
// removed node. Unknown ids are a no-op.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()
	s.notify()
}

// AddEdge appends an edge. Edges referencing absent node ids are
// dropped with a debug log rather than stored dangling. Duplicate
// source→target pairs are permitted. An edge without an id gets a
// generated one.
func (s *Store) AddEdge(e domain.Edge) {
	s.mu.Lock()
	if s.indexOf(e.Source) < 0 || s.indexOf(e.Target) < 0 {
		s.logger.Debug("dropping edge with dangling reference",
			slog.String("source", e.Source),
			slog.String("target", e.Target))
		s.mu.Unlock()
		return
	}
	if e.ID == "" {
		e.ID = s.nextEdgeID()
	}
	s.edges = append(s.edges, e)
	s.mu.Unlock()
	s.notify()
}

// Connect creates a new edge between two node handles with a generated
// unique id and a smooth-curve rendering hint. It reports whether the
// edge was created; connections to absent nodes are refused.
func (s *Store) Connect(source, target string) (domain.Edge, bool) {
	s.mu.Lock()
	if s.indexOf(source) < 0 || s.indexOf(target) < 0 {
		s.mu.Unlock()
		return domain.Edge{}, false
	}
	e := domain.Edge{
		ID:     s.nextEdgeID(),
		Source: source,
		Target: target,
		Type:   domain.EdgeTypeSmooth,
	}
	s.edges = append(s.edges, e)
	s.mu.Unlock()
	s.notify()
	return e, true
}

// Clear empties nodes, edges and selection. The viewport is left
// untouched so the camera does not jump on "new workflow".
func (s *Store) Clear() {
	s.mu.Lock()
	s.nodes = nil
	s.edges = nil
	s.selected = ""
	s.mu.Unlock()
	s.notify()
}

// Nodes returns a copy of the node set in insertion order.
func (s *Store) Nodes() []domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Node(nil), s.nodes...)
}

// Edges returns a copy of the edge set in insertion order.
func (s *Store) Edges() []domain.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Edge(nil), s.edges...)
}

// Node returns the named node and whether it exists.
func (s *Store) Node(id string) (domain.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.nodes[i], true
	}
	return domain.Node{}, false
}

// SetPositions overwrites node positions in bulk, used when a drag
// gesture completes. Ids absent from the graph are ignored.
func (s *Store) SetPositions(positions map[string]domain.Position) {
	s.mu.Lock()
	for i := range s.nodes {
		if pos, ok := positions[s.nodes[i].ID]; ok {
			s.nodes[i].Position = pos
		}
	}
	s.mu.Unlock()
	s.notify()
}

// indexOf returns the index of the node with the given id, or -1.
// Caller must hold the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextEdgeID() string {
	s.edgeSeq++
	return fmt.Sprintf("edge_%d_%d", time.Now().UnixNano(), s.edgeSeq)
}

func pruneDangling(edges []domain.Edge, nodes []domain.Node) []domain.Edge {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	kept := edges[:0]
	for _, e := range edges {
		if _, ok := ids[e.Source]; !ok {
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
