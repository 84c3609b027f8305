// Package credentials maintains the ledger of credential input fields
// derived from the current node set. The ledger owns all credential
// values; nodes only carry requirement descriptors.
package credentials

import (
	"log/slog"
	"sync"

	"github.com/abzali/cue/internal/domain"
)

// GroupStatus is the aggregate display status of a service-type group.
// Precedence: invalid > missing (required and empty) > valid > neutral.
type GroupStatus string

const (
	GroupInvalid GroupStatus = "invalid"
	GroupMissing GroupStatus = "missing"
	GroupValid   GroupStatus = "valid"
	GroupNeutral GroupStatus = "neutral"
)

// Group is the per-service view of credential fields for display,
// preserving insertion order within the group.
type Group struct {
	ServiceType domain.ServiceType
	Fields      []domain.CredentialField
	Required    bool
	Expanded    bool
	Status      GroupStatus
}

// Result is one per-field outcome from the validation service.
type Result struct {
	Valid   bool
	Message string
}

// Ledger tracks credential fields, their values, validation results and
// the per-service expanded/collapsed UI flags.
type Ledger struct {
	mu       sync.RWMutex
	fields   []domain.CredentialField
	index    map[string]int
	expanded map[domain.ServiceType]bool
	logger   *slog.Logger
}

// NewLedger creates an empty credential ledger.
func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{
		index:    make(map[string]int),
		expanded: make(map[domain.ServiceType]bool),
		logger:   logger,
	}
}

// Initialize rebuilds the entire ledger from the node set: one field
// per node requirement, keyed nodeID_requirementID. Replaces, never
// appends, so re-running with the same nodes is idempotent. The
// per-service expanded flags are kept; they are independent UI state.
func (l *Ledger) Initialize(nodes []domain.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fields = nil
	l.index = make(map[string]int)

	for _, n := range nodes {
		for _, req := range n.Data.RequiredCredentials {
			f := domain.CredentialField{
				ID:             domain.FieldID(n.ID, req.ID),
				NodeID:         n.ID,
				ServiceType:    n.Data.ServiceType,
				CredentialType: req.CredentialType,
				Name:           req.Name,
				Description:    req.Description,
				Required:       req.Required,
				Placeholder:    req.Placeholder,
				HelpURL:        req.HelpURL,
				Pattern:        req.Pattern,
			}
			l.index[f.ID] = len(l.fields)
			l.fields = append(l.fields, f)
		}
	}

	l.logger.Debug("credential ledger initialized",
		slog.Int("nodes", len(nodes)),
		slog.Int("fields", len(l.fields)))
}

// SetValue updates a field's value and atomically resets its validity
// to unevaluated. Unknown ids are a no-op.
func (l *Ledger) SetValue(fieldID, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[fieldID]
	if !ok {
		return
	}
	l.fields[i].Value = value
	l.fields[i].Valid = nil
	l.fields[i].ValidationMessage = ""
}

// SetValidationResult records a validation outcome for one field.
// Unknown ids are a no-op so stale results from a previous node set
// never cause an error.
func (l *Ledger) SetValidationResult(fieldID string, valid bool, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[fieldID]
	if !ok {
		l.logger.Debug("validation result for unknown field dropped",
			slog.String("field", fieldID))
		return
	}
	v := valid
	l.fields[i].Valid = &v
	l.fields[i].ValidationMessage = message
}

// ApplyResults ingests a validation service response map.
func (l *Ledger) ApplyResults(results map[string]Result) {
	for id, r := range results {
		l.SetValidationResult(id, r.Valid, r.Message)
	}
}

// ToggleSectionExpanded flips the expanded flag for a service group.
func (l *Ledger) ToggleSectionExpanded(st domain.ServiceType) {
	l.mu.Lock()
	l.expanded[st] = !l.expanded[st]
	l.mu.Unlock()
}

// SectionExpanded reports whether a service group is expanded.
func (l *Ledger) SectionExpanded(st domain.ServiceType) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expanded[st]
}

// Field returns a field by id.
func (l *Ledger) Field(fieldID string) (domain.CredentialField, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i, ok := l.index[fieldID]; ok {
		return l.fields[i], true
	}
	return domain.CredentialField{}, false
}

// Fields returns a copy of all fields in insertion order.
func (l *Ledger) Fields() []domain.CredentialField {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.CredentialField(nil), l.fields...)
}

// Values returns the fieldID→value map, the shape stored in the
// snapshot credentials bag and sent to the validation service.
func (l *Ledger) Values() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values := make(map[string]string, len(l.fields))
	for _, f := range l.fields {
		values[f.ID] = f.Value
	}
	return values
}

// RestoreValues re-applies persisted values after Initialize, without
// marking them validated. Ids absent from the ledger are ignored.
func (l *Ledger) RestoreValues(values map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, v := range values {
		if i, ok := l.index[id]; ok {
			l.fields[i].Value = v
			l.fields[i].Valid = nil
		}
	}
}

// Groups returns the fields grouped by service type for display. Group
// order follows first appearance; field order within a group follows
// ledger insertion order.
func (l *Ledger) Groups() []Group {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var order []domain.ServiceType
	byType := make(map[domain.ServiceType]*Group)

	for _, f := range l.fields {
		g, ok := byType[f.ServiceType]
		if !ok {
			g = &Group{ServiceType: f.ServiceType, Expanded: l.expanded[f.ServiceType]}
			byType[f.ServiceType] = g
			order = append(order, f.ServiceType)
		}
		g.Fields = append(g.Fields, f)
		if f.Required {
			g.Required = true
		}
	}

	groups := make([]Group, 0, len(order))
	for _, st := range order {
		g := byType[st]
		g.Status = aggregateStatus(g.Fields)
		groups = append(groups, *g)
	}
	return groups
}

// aggregateStatus folds field states into the group badge:
// any invalid wins, then any required-and-empty, then any valid.
func aggregateStatus(fields []domain.CredentialField) GroupStatus {
	anyInvalid := false
	anyMissing := false
	anyValid := false
	for _, f := range fields {
		switch {
		case f.Valid != nil && !*f.Valid:
			anyInvalid = true
		case f.Required && f.Value == "":
			anyMissing = true
		case f.Valid != nil && *f.Valid:
			anyValid = true
		}
	}
	switch {
	case anyInvalid:
		return GroupInvalid
	case anyMissing:
		return GroupMissing
	case anyValid:
		return GroupValid
	}
	return GroupNeutral
}
