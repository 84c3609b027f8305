package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abzali/cue/internal/domain"
)

func testNodes() []domain.Node {
	return []domain.Node{
		{ID: "n1", Position: domain.Position{X: 0, Y: 0}, Data: domain.NodeData{
			Name: "Webhook", ServiceType: domain.ServiceWebhook, ValidationStatus: domain.StatusPending,
		}},
		{ID: "n2", Position: domain.Position{X: 300, Y: 0}, Data: domain.NodeData{
			Name: "Charge card", ServiceType: domain.ServicePayment, ValidationStatus: domain.StatusPending,
		}},
	}
}

func TestBoard_PlaceholderOnEmptyGraph(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	board := NewBoard()
	board.Resize(fyne.NewSize(800, 600))
	board.SetGraph(nil, nil, "")

	assert.True(t, board.placeholder.Visible(), "empty graph shows the placeholder")

	board.SetGraph(testNodes(), nil, "")
	assert.False(t, board.placeholder.Visible())
	assert.Len(t, board.cards, 2)

	board.SetGraph(nil, nil, "")
	assert.True(t, board.placeholder.Visible(), "placeholder returns when the graph empties")
	assert.Empty(t, board.cards)
}

func TestBoard_TapSelectsAndBackgroundClears(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var selected []string
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnNodeSelected: func(id string) { selected = append(selected, id) },
	})
	board.SetGraph(testNodes(), nil, "n1")

	board.cardTapped("n2")
	board.Tapped(&fyne.PointEvent{})

	require.Len(t, selected, 2)
	assert.Equal(t, "n2", selected[0])
	assert.Equal(t, "", selected[1], "background tap reports an empty id")
}

func TestBoard_LinkGesture(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var connects [][2]string
	var selects int
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnConnect:      func(src, dst string) { connects = append(connects, [2]string{src, dst}) },
		OnNodeSelected: func(string) { selects++ },
	})
	board.SetGraph(testNodes(), nil, "")

	board.cardLinkStarted("n1")
	board.cardTapped("n2")

	require.Len(t, connects, 1)
	assert.Equal(t, [2]string{"n1", "n2"}, connects[0])
	assert.Zero(t, selects, "completing a link is not a selection")

	// Linking a card to itself is dropped
	board.cardLinkStarted("n1")
	board.cardTapped("n1")
	assert.Len(t, connects, 1)

	// Background tap cancels a pending link without clearing selection
	board.cardLinkStarted("n1")
	board.Tapped(&fyne.PointEvent{})
	board.cardTapped("n2")
	assert.Len(t, connects, 1)
	assert.Equal(t, 1, selects, "tap after a cancelled link selects normally")
}

func TestBoard_DragCommitsOnceWithFullPositions(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var commits []map[string]domain.Position
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnPositionsCommitted: func(p map[string]domain.Position) { commits = append(commits, p) },
	})
	board.SetGraph(testNodes(), nil, "")

	board.cardDragged("n1", fyne.Delta{DX: 10, DY: 5})
	board.cardDragged("n1", fyne.Delta{DX: 10, DY: 5})
	assert.Empty(t, commits, "drag frames stay transient")

	board.cardDragEnded()
	require.Len(t, commits, 1, "one commit per completed gesture")
	assert.Equal(t, domain.Position{X: 20, Y: 10}, commits[0]["n1"])
	assert.Equal(t, domain.Position{X: 300, Y: 0}, commits[0]["n2"], "commit carries the full position set")

	board.cardDragEnded()
	assert.Len(t, commits, 1, "drag end without movement does not commit")
}

func TestBoard_DragScalesWithZoom(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var committed map[string]domain.Position
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnPositionsCommitted: func(p map[string]domain.Position) { committed = p },
	})
	board.SetGraph(testNodes(), nil, "")
	board.SetViewport(domain.Viewport{Zoom: 2})

	board.cardDragged("n1", fyne.Delta{DX: 20, DY: 0})
	board.cardDragEnded()

	require.NotNil(t, committed)
	assert.Equal(t, domain.Position{X: 10, Y: 0}, committed["n1"],
		"screen delta converts to world units through the zoom factor")
}

func TestBoard_PanReportsEveryFrame(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var viewports []domain.Viewport
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnViewportChanged: func(vp domain.Viewport) { viewports = append(viewports, vp) },
	})
	board.SetGraph(testNodes(), nil, "")

	board.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 5, DY: 0}})
	board.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 5, DY: 3}})

	require.Len(t, viewports, 2)
	assert.Equal(t, 10.0, viewports[1].X)
	assert.Equal(t, 3.0, viewports[1].Y)
}

func TestBoard_ZoomClamped(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	board := NewBoard()
	board.SetGraph(testNodes(), nil, "")

	for i := 0; i < 100; i++ {
		board.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 10}})
	}
	assert.Equal(t, maxZoom, board.viewport.Zoom)

	for i := 0; i < 200; i++ {
		board.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -10}})
	}
	assert.Equal(t, minZoom, board.viewport.Zoom)
}

func TestBoard_SetGraphAbandonsPendingGestures(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var connects int
	board := NewBoard()
	board.SetCallbacks(Callbacks{
		OnConnect: func(string, string) { connects++ },
	})
	board.SetGraph(testNodes(), nil, "")

	board.cardLinkStarted("n1")
	board.SetGraph(testNodes(), nil, "")
	board.cardTapped("n2")

	assert.Zero(t, connects, "a graph replacement cancels the pending link")
}
