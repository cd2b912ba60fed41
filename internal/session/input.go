package session

import (
	"time"

	"github.com/qinsehm1128/subvault/internal/vault"
)

// CredentialInput carries the caller-supplied fields for a new
// credential. ID and creation time are assigned by the session.
type CredentialInput struct {
	Label    string
	Username string
	Password string
	Notes    string
}

// SubscriptionInput carries the caller-supplied fields for a new or
// updated subscription. There is no renewal date field on purpose.
type SubscriptionInput struct {
	Name            string
	Cost            float64
	Currency        string
	FrequencyAmount int
	FrequencyUnit   vault.FrequencyUnit
	StartDate       string
	Category        string
	CredentialID    string
	Website         string
	Active          bool
}

// applyDefaults fills the optional fields for a create operation.
func (in *SubscriptionInput) applyDefaults() {
	if in.StartDate == "" {
		in.StartDate = time.Now().UTC().Format(vault.DateLayout)
	}
	if in.FrequencyAmount == 0 {
		in.FrequencyAmount = 1
	}
	if in.FrequencyUnit == "" {
		in.FrequencyUnit = vault.Months
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if in.Category == "" {
		in.Category = "general"
	}
}
