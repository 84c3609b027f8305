package domain

import "fmt"

// Position is a node's location on the canvas, mutable by drag.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ValidationStatus is the per-node credential validation state.
type ValidationStatus string

const (
	StatusPending ValidationStatus = "pending"
	StatusValid   ValidationStatus = "valid"
	StatusInvalid ValidationStatus = "invalid"
	StatusWarning ValidationStatus = "warning"
)

// IsKnown reports whether s is one of the four enumerated statuses.
func (s ValidationStatus) IsKnown() bool {
	switch s {
	case StatusPending, StatusValid, StatusInvalid, StatusWarning:
		return true
	}
	return false
}

// NodeData is the display and integration payload of a workflow node.
// Credential values are owned by the credentials ledger; nodes carry
// only the requirement descriptors.
type NodeData struct {
	Name                string                  `json:"name"`
	Description         string                  `json:"description,omitempty"`
	ServiceType         ServiceType             `json:"serviceType"`
	Icon                string                  `json:"icon,omitempty"`
	RequiredCredentials []CredentialRequirement `json:"requiredCredentials,omitempty"`
	ValidationStatus    ValidationStatus        `json:"validationStatus"`
	ValidationMessage   string                  `json:"validationMessage,omitempty"`
	IsExpanded          bool                    `json:"isExpanded,omitempty"`
}

// NodeDataPatch is a partial update merged into an existing NodeData.
// Nil fields are left unchanged.
type NodeDataPatch struct {
	Name                *string
	Description         *string
	ValidationStatus    *ValidationStatus
	ValidationMessage   *string
	IsExpanded          *bool
	RequiredCredentials []CredentialRequirement
}

// Node is a single step in the workflow graph, rendered as a card.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NewNode constructs a Node, rejecting an empty id.
func NewNode(id string, pos Position, data NodeData) (Node, error) {
	if id == "" {
		return Node{}, fmt.Errorf("node id must not be empty")
	}
	if data.ValidationStatus == "" {
		data.ValidationStatus = StatusPending
	}
	if !data.ValidationStatus.IsKnown() {
		return Node{}, fmt.Errorf("unknown validation status %q", data.ValidationStatus)
	}
	return Node{ID: id, Position: pos, Data: data}, nil
}

// Merge applies a patch to the node data, leaving nil fields untouched.
func (d *NodeData) Merge(patch NodeDataPatch) {
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.ValidationStatus != nil && patch.ValidationStatus.IsKnown() {
		d.ValidationStatus = *patch.ValidationStatus
	}
	if patch.ValidationMessage != nil {
		d.ValidationMessage = *patch.ValidationMessage
	}
	if patch.IsExpanded != nil {
		d.IsExpanded = *patch.IsExpanded
	}
	if patch.RequiredCredentials != nil {
		d.RequiredCredentials = patch.RequiredCredentials
	}
}
