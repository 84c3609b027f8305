package domain

// ServiceType is the closed category tag of a node's external integration.
// It drives the icon, display name and default credential set.
type ServiceType string

const (
	ServiceWebhook ServiceType = "webhook"
	ServicePayment ServiceType = "payment"
	ServiceEmail   ServiceType = "email"
	ServiceStorage ServiceType = "storage"
	ServiceGeneric ServiceType = "generic"
)

// ParseServiceType maps a raw tag to a known service type.
// Unknown or legacy tags fall back to generic so a stale generation
// response can never produce an unrenderable node.
func ParseServiceType(raw string) ServiceType {
	switch raw {
	case "webhook":
		return ServiceWebhook
	case "payment", "stripe":
		return ServicePayment
	case "email", "sendgrid":
		return ServiceEmail
	case "storage", "dynamodb":
		return ServiceStorage
	case "generic":
		return ServiceGeneric
	}
	return ServiceGeneric
}

// ServiceInfo describes how a service type is presented and what
// credentials it needs by default.
type ServiceInfo struct {
	DisplayName         string
	Icon                string
	DefaultRequirements []CredentialRequirement
}

var serviceCatalog = map[ServiceType]ServiceInfo{
	ServiceWebhook: {
		DisplayName: "Webhook",
		Icon:        "webhook",
	},
	ServicePayment: {
		DisplayName: "Stripe",
		Icon:        "payment",
		DefaultRequirements: []CredentialRequirement{
			{
				ID:             "secret_key",
				Name:           "Secret Key",
				Description:    "Stripe secret API key (sk_...)",
				CredentialType: CredentialPassword,
				Required:       true,
				Placeholder:    "sk_live_...",
				HelpURL:        "https://dashboard.stripe.com/apikeys",
				Pattern:        `^sk_(test|live)_[A-Za-z0-9]+$`,
			},
			{
				ID:             "webhook_secret",
				Name:           "Webhook Signing Secret",
				Description:    "Used to verify Stripe webhook signatures",
				CredentialType: CredentialPassword,
				Placeholder:    "whsec_...",
			},
		},
	},
	ServiceEmail: {
		DisplayName: "SendGrid",
		Icon:        "email",
		DefaultRequirements: []CredentialRequirement{
			{
				ID:             "api_key",
				Name:           "API Key",
				Description:    "SendGrid API key with Mail Send permission",
				CredentialType: CredentialPassword,
				Required:       true,
				Placeholder:    "SG....",
				HelpURL:        "https://app.sendgrid.com/settings/api_keys",
				Pattern:        `^SG\.[A-Za-z0-9_.-]+$`,
			},
			{
				ID:             "from_email",
				Name:           "Sender Address",
				Description:    "Verified sender email address",
				CredentialType: CredentialText,
				Required:       true,
				Placeholder:    "noreply@example.com",
			},
		},
	},
	ServiceStorage: {
		DisplayName: "DynamoDB",
		Icon:        "storage",
		DefaultRequirements: []CredentialRequirement{
			{
				ID:             "access_key_id",
				Name:           "Access Key ID",
				CredentialType: CredentialText,
				Required:       true,
				Placeholder:    "AKIA...",
			},
			{
				ID:             "secret_access_key",
				Name:           "Secret Access Key",
				CredentialType: CredentialPassword,
				Required:       true,
			},
			{
				ID:             "region",
				Name:           "Region",
				CredentialType: CredentialText,
				Required:       true,
				Placeholder:    "us-east-1",
			},
		},
	},
	ServiceGeneric: {
		DisplayName: "Step",
		Icon:        "generic",
	},
}

// Info returns the catalog entry for the service type.
// Unknown types resolve to the generic entry.
func (s ServiceType) Info() ServiceInfo {
	if info, ok := serviceCatalog[s]; ok {
		return info
	}
	return serviceCatalog[ServiceGeneric]
}

// DisplayName returns the human-readable name for the service type.
func (s ServiceType) DisplayName() string {
	return s.Info().DisplayName
}
