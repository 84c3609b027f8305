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
	_ fyne.Tappable          = (*nodeCard)(nil)
	_ fyne.DoubleTappable    = (*nodeCard)(nil)
	_ fyne.SecondaryTappable = (*nodeCard)(nil)
	_ fyne.Draggable         = (*nodeCard)(nil)
)

const (
	cardWidth          float32 = 180
	cardHeight         float32 = 72
	cardExpandedHeight float32 = 116
)

// nodeCard renders one workflow step on the board. Drag frames move
// only the card; the owning Board commits positions on DragEnd.
type nodeCard struct {
	widget.BaseWidget

	board *Board
	node  domain.Node

	selected   bool
	linkSource bool

	background *fynecanvas.Rectangle
	name       *widget.Label
	service    *widget.Label
	status     *widget.Icon
	detail     *widget.Label
}

func newNodeCard(board *Board, node domain.Node) *nodeCard {
	c := &nodeCard{board: board, node: node}

	c.background = fynecanvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	c.background.CornerRadius = 8

	c.name = widget.NewLabel(node.Data.Name)
	c.name.TextStyle = fyne.TextStyle{Bold: true}
	c.name.Truncation = fyne.TextTruncateEllipsis

	c.service = widget.NewLabel(node.Data.ServiceType.Info().DisplayName)
	c.service.Importance = widget.LowImportance

	c.status = widget.NewIcon(statusIcon(node.Data.ValidationStatus))

	c.detail = widget.NewLabel(node.Data.Description)
	c.detail.Wrapping = fyne.TextWrapWord
	c.detail.Importance = widget.MediumImportance
	if !node.Data.IsExpanded {
		c.detail.Hide()
	}

	c.ExtendBaseWidget(c)
	c.applyStyle()
	return c
}

// update refreshes the card for a new authoritative node value.
func (c *nodeCard) update(node domain.Node, selected, linkSource bool) {
	c.node = node
	c.selected = selected
	c.linkSource = linkSource

	c.name.SetText(node.Data.Name)
	c.service.SetText(node.Data.ServiceType.Info().DisplayName)
	c.status.SetResource(statusIcon(node.Data.ValidationStatus))
	c.detail.SetText(node.Data.Description)
	if node.Data.IsExpanded {
		c.detail.Show()
	} else {
		c.detail.Hide()
	}
	c.applyStyle()
	c.Refresh()
}

func (c *nodeCard) applyStyle() {
	switch {
	case c.linkSource:
		c.background.StrokeColor = theme.Color(theme.ColorNameFocus)
		c.background.StrokeWidth = 2
	case c.selected:
		c.background.StrokeColor = theme.Color(theme.ColorNamePrimary)
		c.background.StrokeWidth = 2
	case c.node.Data.ValidationStatus == domain.StatusInvalid:
		c.background.StrokeColor = theme.Color(theme.ColorNameError)
		c.background.StrokeWidth = 1
	default:
		c.background.StrokeColor = theme.Color(theme.ColorNameSeparator)
		c.background.StrokeWidth = 1
	}
	c.background.Refresh()
}

func (c *nodeCard) height() float32 {
	if c.node.Data.IsExpanded {
		return cardExpandedHeight
	}
	return cardHeight
}

// Tapped selects the card, or completes a pending link gesture.
func (c *nodeCard) Tapped(_ *fyne.PointEvent) {
	c.board.cardTapped(c.node.ID)
}

// DoubleTapped starts a link gesture from this card.
func (c *nodeCard) DoubleTapped(_ *fyne.PointEvent) {
	c.board.cardLinkStarted(c.node.ID)
}

// TappedSecondary toggles the expanded detail view.
func (c *nodeCard) TappedSecondary(_ *fyne.PointEvent) {
	c.board.cardExpandToggled(c.node.ID, !c.node.Data.IsExpanded)
}

// Dragged moves the card's transient position without touching the
// authoritative graph.
func (c *nodeCard) Dragged(ev *fyne.DragEvent) {
	c.board.cardDragged(c.node.ID, ev.Dragged)
}

// DragEnd commits the full position set in one write.
func (c *nodeCard) DragEnd() {
	c.board.cardDragEnded()
}

// CreateRenderer implements fyne.Widget.
func (c *nodeCard) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewBorder(nil, nil, nil, c.status, c.name)
	body := container.NewVBox(header, c.service, c.detail)
	content := container.NewStack(c.background, container.NewPadded(body))
	return widget.NewSimpleRenderer(content)
}

func statusIcon(status domain.ValidationStatus) fyne.Resource {
	switch status {
	case domain.StatusValid:
		return theme.ConfirmIcon()
	case domain.StatusInvalid:
		return theme.ErrorIcon()
	case domain.StatusWarning:
		return theme.WarningIcon()
	default:
		return theme.MoreHorizontalIcon()
	}
}
