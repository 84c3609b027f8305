package domain

// CredentialType selects the input widget used for a credential value.
type CredentialType string

const (
	CredentialText     CredentialType = "text"
	CredentialPassword CredentialType = "password"
)

// CredentialRequirement describes one secret or config value a node's
// external service integration needs before deployment.
type CredentialRequirement struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	CredentialType CredentialType `json:"credentialType"`
	Required       bool           `json:"required"`
	Placeholder    string         `json:"placeholder,omitempty"`
	HelpURL        string         `json:"helpUrl,omitempty"`
	Pattern        string         `json:"validationPattern,omitempty"`
}

// FieldID builds the composite ledger key for a node/requirement pair.
func FieldID(nodeID, requirementID string) string {
	return nodeID + "_" + requirementID
}

// CredentialField is one user-editable credential entry derived from a
// node's requirements. Valid is tri-state: nil means not yet evaluated.
type CredentialField struct {
	ID                string         `json:"id"`
	NodeID            string         `json:"nodeId"`
	ServiceType       ServiceType    `json:"serviceType"`
	CredentialType    CredentialType `json:"credentialType"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Value             string         `json:"value"`
	Required          bool           `json:"required"`
	Valid             *bool          `json:"isValid"`
	ValidationMessage string         `json:"validationMessage,omitempty"`
	Placeholder       string         `json:"placeholder,omitempty"`
	HelpURL           string         `json:"helpUrl,omitempty"`
	Pattern           string         `json:"validationPattern,omitempty"`
}
