package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abzali/cue/internal/domain"
	"github.com/abzali/cue/internal/logging"
)

func paymentNode(id string) domain.Node {
	return domain.Node{
		ID: id,
		Data: domain.NodeData{
			Name:                "Charge card",
			ServiceType:         domain.ServicePayment,
			RequiredCredentials: domain.ServicePayment.Info().DefaultRequirements,
			ValidationStatus:    domain.StatusPending,
		},
	}
}

func emailNode(id string) domain.Node {
	return domain.Node{
		ID: id,
		Data: domain.NodeData{
			Name:                "Send receipt",
			ServiceType:         domain.ServiceEmail,
			RequiredCredentials: domain.ServiceEmail.Info().DefaultRequirements,
			ValidationStatus:    domain.StatusPending,
		},
	}
}

func TestInitialize_DerivesFieldsFromNodes(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1"), emailNode("n2")})

	fields := l.Fields()
	require.Len(t, fields, 4) // 2 payment + 2 email requirements

	f, ok := l.Field("n1_secret_key")
	require.True(t, ok, "composite field id nodeID_requirementID")
	assert.Equal(t, "n1", f.NodeID)
	assert.Equal(t, domain.ServicePayment, f.ServiceType)
	assert.True(t, f.Required)
	assert.Nil(t, f.Valid, "new fields start unevaluated")
}

func TestInitialize_Idempotent(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	nodes := []domain.Node{paymentNode("n1"), emailNode("n2")}

	l.Initialize(nodes)
	first := l.Fields()
	l.Initialize(nodes)
	second := l.Fields()

	assert.Equal(t, first, second)
}

func TestInitialize_ReplacesNotAppends(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1")})
	l.SetValue("n1_secret_key", "sk_test_123")

	l.Initialize([]domain.Node{emailNode("n2")})

	_, ok := l.Field("n1_secret_key")
	assert.False(t, ok, "fields from the previous node set must be gone")
	assert.Len(t, l.Fields(), 2)
}

func TestSetValue_ResetsValidity(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1")})

	l.SetValidationResult("n1_secret_key", true, "looks good")
	f, _ := l.Field("n1_secret_key")
	require.NotNil(t, f.Valid)
	require.True(t, *f.Valid)

	l.SetValue("n1_secret_key", "sk_live_changed")

	f, _ = l.Field("n1_secret_key")
	assert.Nil(t, f.Valid, "editing a value must reset validity to unevaluated")
	assert.Empty(t, f.ValidationMessage)
	assert.Equal(t, "sk_live_changed", f.Value)
}

func TestSetValidationResult_UnknownFieldIsNoOp(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1")})

	// Stale id from a previous node set: must not panic or error
	l.SetValidationResult("old_node_secret_key", false, "bad")
	l.SetValue("old_node_secret_key", "whatever")

	assert.Len(t, l.Fields(), 2)
}

func TestToggleSectionExpanded(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())

	assert.False(t, l.SectionExpanded(domain.ServicePayment))
	l.ToggleSectionExpanded(domain.ServicePayment)
	assert.True(t, l.SectionExpanded(domain.ServicePayment))
	l.ToggleSectionExpanded(domain.ServicePayment)
	assert.False(t, l.SectionExpanded(domain.ServicePayment))
}

func TestToggleSectionExpanded_SurvivesInitialize(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.ToggleSectionExpanded(domain.ServiceEmail)

	l.Initialize([]domain.Node{emailNode("n1")})

	assert.True(t, l.SectionExpanded(domain.ServiceEmail),
		"expanded flags are independent of field state")
}

func TestGroups_PreservesInsertionOrder(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{emailNode("n1"), paymentNode("n2"), emailNode("n3")})

	groups := l.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, domain.ServiceEmail, groups[0].ServiceType, "first appearance wins")
	assert.Equal(t, domain.ServicePayment, groups[1].ServiceType)
	// n1 fields before n3 fields inside the email group
	assert.Equal(t, "n1_api_key", groups[0].Fields[0].ID)
	assert.Equal(t, "n3_api_key", groups[0].Fields[2].ID)
}

func TestGroups_AggregateStatusPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		setup func(l *Ledger)
		want  GroupStatus
	}{
		{
			name:  "neutral when nothing evaluated and nothing required-empty",
			setup: func(l *Ledger) { fillAll(l) },
			want:  GroupNeutral,
		},
		{
			name: "valid when any field validated ok",
			setup: func(l *Ledger) {
				fillAll(l)
				l.SetValidationResult("n1_secret_key", true, "")
			},
			want: GroupValid,
		},
		{
			name: "required-and-empty beats valid",
			setup: func(l *Ledger) {
				// secret_key required and empty, webhook_secret filled and valid
				l.SetValue("n1_webhook_secret", "whsec_abc")
				l.SetValidationResult("n1_webhook_secret", true, "")
			},
			want: GroupMissing,
		},
		{
			name: "invalid beats everything",
			setup: func(l *Ledger) {
				l.SetValidationResult("n1_webhook_secret", false, "bad format")
			},
			want: GroupInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(logging.NewNopLogger())
			l.Initialize([]domain.Node{paymentNode("n1")})
			tt.setup(l)

			groups := l.Groups()
			require.Len(t, groups, 1)
			assert.Equal(t, tt.want, groups[0].Status)
			assert.True(t, groups[0].Required)
		})
	}
}

// fillAll gives every field a value so no required field is empty.
func fillAll(l *Ledger) {
	for _, f := range l.Fields() {
		l.SetValue(f.ID, "filled")
	}
}

func TestValuesAndRestore(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1")})
	l.SetValue("n1_secret_key", "sk_test_1")

	values := l.Values()
	assert.Equal(t, "sk_test_1", values["n1_secret_key"])

	// Simulate reload: fresh ledger, restore persisted values
	l2 := NewLedger(logging.NewNopLogger())
	l2.Initialize([]domain.Node{paymentNode("n1")})
	l2.RestoreValues(values)

	f, _ := l2.Field("n1_secret_key")
	assert.Equal(t, "sk_test_1", f.Value)
	assert.Nil(t, f.Valid, "restored values are not pre-validated")
}

func TestApplyResults(t *testing.T) {
	l := NewLedger(logging.NewNopLogger())
	l.Initialize([]domain.Node{paymentNode("n1")})

	l.ApplyResults(map[string]Result{
		"n1_secret_key": {Valid: false, Message: "key revoked"},
		"stale_field":   {Valid: true},
	})

	f, _ := l.Field("n1_secret_key")
	require.NotNil(t, f.Valid)
	assert.False(t, *f.Valid)
	assert.Equal(t, "key revoked", f.ValidationMessage)
}
