package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/abzali/cue/internal/domain"
)

// Compile-time interface checks.
var (
	_ Surface         = (*Board)(nil)
	_ fyne.Tappable   = (*Board)(nil)
	_ fyne.Draggable  = (*Board)(nil)
	_ fyne.Scrollable = (*Board)(nil)
)

const (
	minZoom    = 0.25
	maxZoom    = 2.5
	zoomStep   = 0.001
	edgeStroke = 2

	placeholderText = "Describe a workflow below to get started"
)

// Board is the Fyne rendering surface for the workflow graph. It holds
// a transient copy of node positions so drag frames stay local; the
// authoritative store only sees the committed result. Zoom scales the
// layout, not the card chrome.
type Board struct {
	widget.BaseWidget

	callbacks Callbacks

	nodes    []domain.Node
	edges    []domain.Edge
	selected string
	viewport domain.Viewport

	// Transient per-gesture state
	positions  map[string]domain.Position
	linkSource string
	dragMoved  bool

	cards       map[string]*nodeCard
	lines       []*fynecanvas.Line
	content     *fyne.Container
	placeholder *widget.Label
}

// NewBoard creates an empty board. Wire the synchronizer's callbacks
// with SetCallbacks before the first user gesture.
func NewBoard() *Board {
	b := &Board{
		viewport:  domain.DefaultViewport(),
		positions: make(map[string]domain.Position),
		cards:     make(map[string]*nodeCard),
	}
	b.placeholder = widget.NewLabel(placeholderText)
	b.placeholder.Importance = widget.LowImportance
	b.content = container.NewWithoutLayout(b.placeholder)
	b.ExtendBaseWidget(b)
	return b
}

// SetCallbacks installs the gesture routing callbacks.
func (b *Board) SetCallbacks(callbacks Callbacks) {
	b.callbacks = callbacks
}

// SetGraph implements Surface. The transient copy is fully replaced;
// any in-progress drag or link gesture is abandoned.
func (b *Board) SetGraph(nodes []domain.Node, edges []domain.Edge, selected string) {
	b.nodes = nodes
	b.edges = edges
	b.selected = selected
	b.linkSource = ""
	b.dragMoved = false

	b.positions = make(map[string]domain.Position, len(nodes))
	for _, n := range nodes {
		b.positions[n.ID] = n.Position
	}

	b.rebuild()
}

// SetViewport implements Surface.
func (b *Board) SetViewport(vp domain.Viewport) {
	if vp.Zoom <= 0 {
		vp.Zoom = 1
	}
	b.viewport = vp
	b.layout()
}

// rebuild recreates cards and edge lines from the transient copy.
func (b *Board) rebuild() {
	seen := make(map[string]struct{}, len(b.nodes))
	objects := make([]fyne.CanvasObject, 0, len(b.nodes)+len(b.edges)+1)

	b.lines = b.lines[:0]
	for range b.edges {
		line := fynecanvas.NewLine(theme.Color(theme.ColorNamePlaceHolder))
		line.StrokeWidth = edgeStroke
		b.lines = append(b.lines, line)
		objects = append(objects, line)
	}

	for _, n := range b.nodes {
		seen[n.ID] = struct{}{}
		card, ok := b.cards[n.ID]
		if ok {
			card.update(n, n.ID == b.selected, false)
		} else {
			card = newNodeCard(b, n)
			card.selected = n.ID == b.selected
			card.applyStyle()
			b.cards[n.ID] = card
		}
		objects = append(objects, card)
	}
	for id := range b.cards {
		if _, ok := seen[id]; !ok {
			delete(b.cards, id)
		}
	}

	if len(b.nodes) == 0 {
		objects = append(objects, b.placeholder)
		b.placeholder.Show()
	} else {
		b.placeholder.Hide()
	}

	b.content.Objects = objects
	b.layout()
}

// layout applies the viewport transform to every card and line.
func (b *Board) layout() {
	zoom := float32(b.viewport.Zoom)
	panX := float32(b.viewport.X)
	panY := float32(b.viewport.Y)

	for _, n := range b.nodes {
		card := b.cards[n.ID]
		if card == nil {
			continue
		}
		pos := b.positions[n.ID]
		card.Resize(fyne.NewSize(cardWidth, card.height()))
		card.Move(fyne.NewPos(float32(pos.X)*zoom+panX, float32(pos.Y)*zoom+panY))
	}

	for i, e := range b.edges {
		if i >= len(b.lines) {
			break
		}
		line := b.lines[i]
		src, okSrc := b.cards[e.Source]
		dst, okDst := b.cards[e.Target]
		if !okSrc || !okDst {
			line.Hide()
			continue
		}
		line.Show()
		sp := b.positions[e.Source]
		tp := b.positions[e.Target]
		line.Position1 = fyne.NewPos(
			float32(sp.X)*zoom+panX+cardWidth,
			float32(sp.Y)*zoom+panY+src.height()/2)
		line.Position2 = fyne.NewPos(
			float32(tp.X)*zoom+panX,
			float32(tp.Y)*zoom+panY+dst.height()/2)
		line.Refresh()
	}

	if b.placeholder.Visible() {
		size := b.Size()
		min := b.placeholder.MinSize()
		b.placeholder.Move(fyne.NewPos(
			(size.Width-min.Width)/2,
			(size.Height-min.Height)/2))
		b.placeholder.Resize(min)
	}

	b.content.Refresh()
}

// Tapped on the background clears the selection and cancels a pending
// link gesture.
func (b *Board) Tapped(_ *fyne.PointEvent) {
	if b.linkSource != "" {
		b.linkSource = ""
		b.restyleCards()
		return
	}
	if b.selected != "" && b.callbacks.OnNodeSelected != nil {
		b.callbacks.OnNodeSelected("")
	}
}

// Dragged pans the viewport. Every frame is reported upstream so the
// camera survives a restart mid-gesture.
func (b *Board) Dragged(ev *fyne.DragEvent) {
	b.viewport.X += float64(ev.Dragged.DX)
	b.viewport.Y += float64(ev.Dragged.DY)
	b.layout()
	if b.callbacks.OnViewportChanged != nil {
		b.callbacks.OnViewportChanged(b.viewport)
	}
}

// DragEnd implements fyne.Draggable; panning commits per frame.
func (b *Board) DragEnd() {}

// Scrolled zooms around the current pan origin, clamped to a sane
// range.
func (b *Board) Scrolled(ev *fyne.ScrollEvent) {
	zoom := b.viewport.Zoom * (1 + float64(ev.Scrolled.DY)*zoomStep*100)
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	if zoom == b.viewport.Zoom {
		return
	}
	b.viewport.Zoom = zoom
	b.layout()
	if b.callbacks.OnViewportChanged != nil {
		b.callbacks.OnViewportChanged(b.viewport)
	}
}

// CreateRenderer implements fyne.Widget.
func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	background := fynecanvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	return widget.NewSimpleRenderer(container.NewStack(background, b.content))
}

// Resize keeps the placeholder centered.
func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	if b.placeholder.Visible() {
		b.layout()
	}
}

// cardTapped completes a pending link gesture or forwards a selection.
func (b *Board) cardTapped(id string) {
	if b.linkSource != "" {
		source := b.linkSource
		b.linkSource = ""
		b.restyleCards()
		if source != id && b.callbacks.OnConnect != nil {
			b.callbacks.OnConnect(source, id)
		}
		return
	}
	if b.callbacks.OnNodeSelected != nil {
		b.callbacks.OnNodeSelected(id)
	}
}

// cardLinkStarted arms a connection from the given card; the next card
// tap becomes the target.
func (b *Board) cardLinkStarted(id string) {
	b.linkSource = id
	b.restyleCards()
}

func (b *Board) cardExpandToggled(id string, expanded bool) {
	if b.callbacks.OnNodeExpandToggled != nil {
		b.callbacks.OnNodeExpandToggled(id, expanded)
	}
}

// cardDragged moves one card's transient position by a screen delta.
func (b *Board) cardDragged(id string, delta fyne.Delta) {
	pos, ok := b.positions[id]
	if !ok {
		return
	}
	zoom := b.viewport.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	pos.X += float64(delta.DX) / zoom
	pos.Y += float64(delta.DY) / zoom
	b.positions[id] = pos
	b.dragMoved = true
	b.layout()
}

// cardDragEnded commits the whole transient position set upstream.
func (b *Board) cardDragEnded() {
	if !b.dragMoved {
		return
	}
	b.dragMoved = false
	if b.callbacks.OnPositionsCommitted == nil {
		return
	}
	committed := make(map[string]domain.Position, len(b.positions))
	for id, pos := range b.positions {
		committed[id] = pos
	}
	b.callbacks.OnPositionsCommitted(committed)
}

func (b *Board) restyleCards() {
	for id, card := range b.cards {
		card.linkSource = id == b.linkSource
		card.selected = id == b.selected
		card.applyStyle()
	}
}
