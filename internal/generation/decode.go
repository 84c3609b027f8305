package generation

import (
	"encoding/json"
	"fmt"

	"github.com/abzali/cue/internal/domain"
)

// Layout fallback for nodes the backend returns without a position:
// a left-to-right row below the canvas origin.
const (
	fallbackOriginX  = 80
	fallbackOriginY  = 160
	fallbackSpacingX = 240
)

// Result is the typed outcome of a generation request.
type Result struct {
	Nodes         []domain.Node
	Edges         []domain.Edge
	GeneratedCode string
	Instructions  string
}

// Wire shapes of the GenerateWorkflow response body. Everything is
// optional except node ids; the decoder supplies defaults for the rest.
type wireWorkflow struct {
	Nodes         []wireNode `json:"nodes"`
	Edges         []wireEdge `json:"edges"`
	GeneratedCode string     `json:"generatedCode"`
	Instructions  string     `json:"instructions"`
}

type wireNode struct {
	ID       string           `json:"id"`
	Position *domain.Position `json:"position"`
	Data     wireNodeData     `json:"data"`
}

type wireNodeData struct {
	Name                string                         `json:"name"`
	Description         string                         `json:"description"`
	ServiceType         string                         `json:"serviceType"`
	Icon                string                         `json:"icon"`
	RequiredCredentials []domain.CredentialRequirement `json:"requiredCredentials"`
}

type wireEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// decodeWorkflow converts a generation response body into domain types.
// Unknown service types degrade to generic, absent positions get the
// row layout fallback, and service types with an empty credential list
// receive their catalog defaults. A node without an id is the one
// unrecoverable defect: every downstream structure keys on it.
func decodeWorkflow(data []byte) (Result, error) {
	var wire wireWorkflow
	if err := json.Unmarshal(data, &wire); err != nil {
		return Result{}, fmt.Errorf("malformed generation response: %w", err)
	}

	out := Result{
		GeneratedCode: wire.GeneratedCode,
		Instructions:  wire.Instructions,
	}

	for i, wn := range wire.Nodes {
		if wn.ID == "" {
			return Result{}, fmt.Errorf("generation response node %d has no id", i)
		}

		serviceType := domain.ParseServiceType(wn.Data.ServiceType)
		info := serviceType.Info()

		pos := domain.Position{
			X: fallbackOriginX + float64(i)*fallbackSpacingX,
			Y: fallbackOriginY,
		}
		if wn.Position != nil {
			pos = *wn.Position
		}

		name := wn.Data.Name
		if name == "" {
			name = info.DisplayName
		}
		icon := wn.Data.Icon
		if icon == "" {
			icon = info.Icon
		}
		reqs := wn.Data.RequiredCredentials
		if len(reqs) == 0 {
			reqs = info.DefaultRequirements
		}

		node, err := domain.NewNode(wn.ID, pos, domain.NodeData{
			Name:                name,
			Description:         wn.Data.Description,
			ServiceType:         serviceType,
			Icon:                icon,
			RequiredCredentials: reqs,
			ValidationStatus:    domain.StatusPending,
		})
		if err != nil {
			return Result{}, fmt.Errorf("generation response node %d: %w", i, err)
		}
		out.Nodes = append(out.Nodes, node)
	}

	for i, we := range wire.Edges {
		id := we.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		edgeType := we.Type
		if edgeType == "" {
			edgeType = domain.EdgeTypeSmooth
		}
		out.Edges = append(out.Edges, domain.Edge{
			ID:     id,
			Source: we.Source,
			Target: we.Target,
			Type:   edgeType,
		})
	}

	return out, nil
}
