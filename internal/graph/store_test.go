package graph

import (
	"testing"

	"github.com/abzali/cue/internal/domain"
	"github.com/abzali/cue/internal/logging"
)

func newTestStore() *Store {
	return NewStore(logging.NewNopLogger())
}

func mustNode(t *testing.T, id string) domain.Node {
	t.Helper()
	n, err := domain.NewNode(id, domain.Position{}, domain.NodeData{
		Name:        id,
		ServiceType: domain.ServiceGeneric,
	})
	if err != nil {
		t.Fatalf("NewNode(%q) failed: %v", id, err)
	}
	return n
}

func TestSetSelected_Toggle(t *testing.T) {
	s := newTestStore()
	if err := s.AddNode(mustNode(t, "a")); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	s.SetSelected("a")
	if got := s.Selected(); got != "a" {
		t.Fatalf("Selected() = %q, want %q", got, "a")
	}

	// Selecting the already-selected node deselects it
	s.SetSelected("a")
	if got := s.Selected(); got != "" {
		t.Errorf("Selected() after toggle = %q, want empty", got)
	}
}

func TestSetSelected_SwitchesNodes(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.AddNode(mustNode(t, "b"))

	s.SetSelected("a")
	s.SetSelected("b")
	if got := s.Selected(); got != "b" {
		t.Errorf("Selected() = %q, want %q", got, "b")
	}
}

func TestRemoveNode_CascadesEdges(t *testing.T) {
	s := newTestStore()
	nodeA := mustNode(t, "a")
	nodeB := mustNode(t, "b")
	s.ReplaceAll(
		[]domain.Node{nodeA, nodeB},
		[]domain.Edge{{ID: "e1", Source: "a", Target: "b"}},
	)

	s.RemoveNode("a")

	nodes := s.Nodes()
	if len(nodes) != 1 || nodes[0].ID != "b" {
		t.Errorf("Nodes() = %v, want [b]", nodes)
	}
	if edges := s.Edges(); len(edges) != 0 {
		t.Errorf("Edges() = %v, want empty after cascade delete", edges)
	}
}

func TestRemoveNode_ClearsSelection(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.SetSelected("a")
	s.RemoveNode("a")
	if got := s.Selected(); got != "" {
		t.Errorf("Selected() = %q, want empty after removing selected node", got)
	}
}

func TestReferentialIntegrity_AddRemoveSequences(t *testing.T) {
	s := newTestStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.AddNode(mustNode(t, id))
	}
	s.AddEdge(domain.Edge{Source: "a", Target: "b"})
	s.AddEdge(domain.Edge{Source: "b", Target: "c"})
	s.AddEdge(domain.Edge{Source: "c", Target: "d"})
	s.AddEdge(domain.Edge{Source: "a", Target: "d"})

	s.RemoveNode("b")
	s.RemoveNode("d")
	s.AddNode(mustNode(t, "e"))
	s.AddEdge(domain.Edge{Source: "a", Target: "e"})

	ids := make(map[string]bool)
	for _, n := range s.Nodes() {
		ids[n.ID] = true
	}
	for _, e := range s.Edges() {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %v references a node absent from the node set", e)
		}
	}
}

func TestReplaceAll_PrunesDanglingEdges(t *testing.T) {
	s := newTestStore()
	s.ReplaceAll(
		[]domain.Node{mustNode(t, "a")},
		[]domain.Edge{
			{ID: "ok", Source: "a", Target: "a"},
			{ID: "dangling", Source: "a", Target: "ghost"},
		},
	)

	edges := s.Edges()
	if len(edges) != 1 || edges[0].ID != "ok" {
		t.Errorf("Edges() = %v, want only the self edge", edges)
	}
}

func TestAddEdge_RefusesDanglingReference(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.AddEdge(domain.Edge{Source: "a", Target: "missing"})
	if edges := s.Edges(); len(edges) != 0 {
		t.Errorf("Edges() = %v, want empty", edges)
	}
}

func TestConnect_AllowsDuplicatePairs(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.AddNode(mustNode(t, "b"))

	e1, ok1 := s.Connect("a", "b")
	e2, ok2 := s.Connect("a", "b")
	if !ok1 || !ok2 {
		t.Fatal("Connect failed for existing nodes")
	}
	if e1.ID == e2.ID {
		t.Errorf("duplicate connections share id %q", e1.ID)
	}
	if len(s.Edges()) != 2 {
		t.Errorf("Edges() = %d, want 2 (duplicates permitted)", len(s.Edges()))
	}
	if e1.Type != domain.EdgeTypeSmooth {
		t.Errorf("edge type = %q, want %q", e1.Type, domain.EdgeTypeSmooth)
	}
}

func TestConnect_RefusesUnknownHandles(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	if _, ok := s.Connect("a", "nope"); ok {
		t.Error("Connect to unknown node should be refused")
	}
}

func TestUpdateNodeData_MergesPartial(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))

	status := domain.StatusValid
	expanded := true
	s.UpdateNodeData("a", domain.NodeDataPatch{
		ValidationStatus: &status,
		IsExpanded:       &expanded,
	})

	n, ok := s.Node("a")
	if !ok {
		t.Fatal("node a disappeared")
	}
	if n.Data.ValidationStatus != domain.StatusValid {
		t.Errorf("ValidationStatus = %q, want valid", n.Data.ValidationStatus)
	}
	if !n.Data.IsExpanded {
		t.Error("IsExpanded = false, want true")
	}
	if n.Data.Name != "a" {
		t.Errorf("Name = %q, want untouched %q", n.Data.Name, "a")
	}
}

func TestUpdateNodeData_UnknownIDIsNoOp(t *testing.T) {
	s := newTestStore()
	name := "x"
	// Must not panic or error
	s.UpdateNodeData("missing", domain.NodeDataPatch{Name: &name})
}

func TestAddNode_RejectsEmptyID(t *testing.T) {
	s := newTestStore()
	if err := s.AddNode(domain.Node{}); err == nil {
		t.Error("AddNode with empty id should fail")
	}
}

func TestClear_KeepsViewport(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.SetSelected("a")
	vp := domain.Viewport{X: 10, Y: 20, Zoom: 2}
	s.SetViewport(vp)

	s.Clear()

	if len(s.Nodes()) != 0 || len(s.Edges()) != 0 {
		t.Error("Clear should empty nodes and edges")
	}
	if s.Selected() != "" {
		t.Error("Clear should reset selection")
	}
	if got := s.Viewport(); got != vp {
		t.Errorf("Viewport() = %v, want %v (untouched by Clear)", got, vp)
	}
}

func TestSetPositions_BulkUpdate(t *testing.T) {
	s := newTestStore()
	s.AddNode(mustNode(t, "a"))
	s.AddNode(mustNode(t, "b"))

	s.SetPositions(map[string]domain.Position{
		"a":     {X: 1, Y: 2},
		"ghost": {X: 9, Y: 9},
	})

	n, _ := s.Node("a")
	if n.Position != (domain.Position{X: 1, Y: 2}) {
		t.Errorf("Position = %v, want {1 2}", n.Position)
	}
}

func TestOnChange_FiresOnMutation(t *testing.T) {
	s := newTestStore()
	var calls, other int
	s.OnChange(func() { calls++ })
	s.OnChange(func() { other++ })

	s.AddNode(mustNode(t, "a"))
	s.SetSelected("a")
	s.SetViewport(domain.Viewport{Zoom: 1.5})
	s.Clear()

	if calls != 4 {
		t.Errorf("change listener fired %d times, want 4", calls)
	}
	if other != calls {
		t.Errorf("second listener fired %d times, want %d", other, calls)
	}
}
