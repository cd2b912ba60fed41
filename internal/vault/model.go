package vault

import (
	"errors"
	"fmt"
	"time"
)

// FrequencyUnit is the unit of a subscription's billing cycle.
type FrequencyUnit string

const (
	Days      FrequencyUnit = "DAYS"
	Weeks     FrequencyUnit = "WEEKS"
	Months    FrequencyUnit = "MONTHS"
	Years     FrequencyUnit = "YEARS"
	Permanent FrequencyUnit = "PERMANENT"
)

// Valid reports whether u is one of the known frequency units.
func (u FrequencyUnit) Valid() bool {
	switch u {
	case Days, Weeks, Months, Years, Permanent:
		return true
	}
	return false
}

var ErrInvalid = errors.New("invalid record")

// Credential is a stored login. Identity is ID; Password and Notes
// are optional.
type Credential struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// Validate checks the required credential fields.
func (c *Credential) Validate() error {
	if c.Label == "" {
		return fmt.Errorf("%w: credential label is required", ErrInvalid)
	}
	if c.Username == "" {
		return fmt.Errorf("%w: credential username is required", ErrInvalid)
	}
	return nil
}

// Subscription is a recurring payment record. CredentialID is a weak
// reference: a relation by identifier, never a guarantee of existence.
type Subscription struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Cost            float64       `json:"cost"`
	Currency        string        `json:"currency"`
	FrequencyAmount int           `json:"frequencyAmount"`
	FrequencyUnit   FrequencyUnit `json:"frequencyUnit"`
	StartDate       string        `json:"startDate"`   // YYYY-MM-DD
	RenewalDate     string        `json:"renewalDate"` // YYYY-MM-DD, always derived
	Category        string        `json:"category"`
	CredentialID    string        `json:"credentialId,omitempty"`
	Website         string        `json:"website,omitempty"`
	Active          bool          `json:"active"`
}

// Validate checks the required subscription fields. RenewalDate is not
// checked: it is recomputed from the other fields, never trusted.
func (s *Subscription) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: subscription name is required", ErrInvalid)
	}
	if s.Cost < 0 {
		return fmt.Errorf("%w: subscription cost must not be negative", ErrInvalid)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: subscription currency is required", ErrInvalid)
	}
	if s.FrequencyAmount < 1 {
		return fmt.Errorf("%w: frequency amount must be at least 1", ErrInvalid)
	}
	if !s.FrequencyUnit.Valid() {
		return fmt.Errorf("%w: unknown frequency unit %q", ErrInvalid, s.FrequencyUnit)
	}
	if _, err := time.Parse(DateLayout, s.StartDate); err != nil {
		return fmt.Errorf("%w: start date %q is not a valid %s date", ErrInvalid, s.StartDate, DateLayout)
	}
	return nil
}

// Data is the plaintext vault aggregate. It only ever exists in memory
// while the vault is unlocked; the persisted form is EncryptedBlob.
type Data struct {
	Credentials   []Credential   `json:"credentials"`
	Subscriptions []Subscription `json:"subscriptions"`
	LastUpdated   int64          `json:"lastUpdated"` // unix milliseconds
}

// NewData creates an empty vault.
func NewData() *Data {
	return &Data{
		Credentials:   make([]Credential, 0),
		Subscriptions: make([]Subscription, 0),
	}
}

// Clone returns a deep copy. Mutations operate on a clone so the live
// snapshot never changes until the copy has been sealed and persisted.
func (d *Data) Clone() *Data {
	c := &Data{
		Credentials:   make([]Credential, len(d.Credentials)),
		Subscriptions: make([]Subscription, len(d.Subscriptions)),
		LastUpdated:   d.LastUpdated,
	}
	copy(c.Credentials, d.Credentials)
	copy(c.Subscriptions, d.Subscriptions)
	return c
}

// FindCredential returns the credential with the given id, or nil.
func (d *Data) FindCredential(id string) *Credential {
	for i := range d.Credentials {
		if d.Credentials[i].ID == id {
			return &d.Credentials[i]
		}
	}
	return nil
}

// FindSubscription returns the subscription with the given id, or nil.
func (d *Data) FindSubscription(id string) *Subscription {
	for i := range d.Subscriptions {
		if d.Subscriptions[i].ID == id {
			return &d.Subscriptions[i]
		}
	}
	return nil
}

// RemoveCredential deletes the credential with the given id and clears
// every subscription reference to it. References are cleared, never
// cascade-deleted. Returns false if no such credential exists.
func (d *Data) RemoveCredential(id string) bool {
	for i := range d.Credentials {
		if d.Credentials[i].ID != id {
			continue
		}
		d.Credentials = append(d.Credentials[:i], d.Credentials[i+1:]...)
		for j := range d.Subscriptions {
			if d.Subscriptions[j].CredentialID == id {
				d.Subscriptions[j].CredentialID = ""
			}
		}
		return true
	}
	return false
}

// RemoveSubscription deletes the subscription with the given id.
// Returns false if no such subscription exists.
func (d *Data) RemoveSubscription(id string) bool {
	for i := range d.Subscriptions {
		if d.Subscriptions[i].ID == id {
			d.Subscriptions = append(d.Subscriptions[:i], d.Subscriptions[i+1:]...)
			return true
		}
	}
	return false
}
