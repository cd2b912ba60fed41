package vault

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/qinsehm1128/subvault/internal/crypto"
)

func validSubscription() Subscription {
	return Subscription{
		ID:              "sub-1",
		Name:            "Netflix",
		Cost:            15.99,
		Currency:        "USD",
		FrequencyAmount: 1,
		FrequencyUnit:   Months,
		StartDate:       "2024-01-15",
		Category:        "entertainment",
		Active:          true,
	}
}

func TestSubscriptionValidate(t *testing.T) {
	sub := validSubscription()
	if err := sub.Validate(); err != nil {
		t.Fatalf("Valid subscription rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Subscription)
	}{
		{"missing name", func(s *Subscription) { s.Name = "" }},
		{"negative cost", func(s *Subscription) { s.Cost = -1 }},
		{"missing currency", func(s *Subscription) { s.Currency = "" }},
		{"zero frequency amount", func(s *Subscription) { s.FrequencyAmount = 0 }},
		{"unknown frequency unit", func(s *Subscription) { s.FrequencyUnit = "SOMETIMES" }},
		{"bad start date", func(s *Subscription) { s.StartDate = "15/01/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubscription()
			tt.mutate(&sub)
			if err := sub.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}

	// Zero cost is allowed, free tiers exist.
	sub = validSubscription()
	sub.Cost = 0
	if err := sub.Validate(); err != nil {
		t.Errorf("Zero cost should be valid: %v", err)
	}
}

func TestCredentialValidate(t *testing.T) {
	cred := Credential{ID: "cred-1", Label: "GitHub", Username: "me"}
	if err := cred.Validate(); err != nil {
		t.Fatalf("Valid credential rejected: %v", err)
	}

	cred.Label = ""
	if err := cred.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Missing label should be invalid, got %v", err)
	}

	cred = Credential{ID: "cred-1", Label: "GitHub"}
	if err := cred.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Missing username should be invalid, got %v", err)
	}
}

func TestCloneIsolation(t *testing.T) {
	d := NewData()
	d.Credentials = append(d.Credentials, Credential{ID: "cred-1", Label: "GitHub", Username: "me"})
	d.Subscriptions = append(d.Subscriptions, validSubscription())

	c := d.Clone()
	c.Credentials[0].Label = "changed"
	c.Subscriptions[0].Cost = 99
	c.Subscriptions = append(c.Subscriptions, validSubscription())

	if d.Credentials[0].Label != "GitHub" {
		t.Error("Clone mutation leaked into original credential")
	}
	if d.Subscriptions[0].Cost != 15.99 {
		t.Error("Clone mutation leaked into original subscription")
	}
	if len(d.Subscriptions) != 1 {
		t.Errorf("Original subscription count changed: %d", len(d.Subscriptions))
	}
}

func TestRemoveCredentialClearsReferences(t *testing.T) {
	d := NewData()
	d.Credentials = append(d.Credentials, Credential{ID: "cred-1", Label: "GitHub", Username: "me"})

	first := validSubscription()
	first.CredentialID = "cred-1"
	second := validSubscription()
	second.ID = "sub-2"
	second.CredentialID = "cred-1"
	d.Subscriptions = append(d.Subscriptions, first, second)

	if !d.RemoveCredential("cred-1") {
		t.Fatal("Failed to remove credential")
	}

	if d.FindCredential("cred-1") != nil {
		t.Error("Credential still present after removal")
	}
	if len(d.Subscriptions) != 2 {
		t.Fatalf("Subscriptions must survive credential removal, got %d", len(d.Subscriptions))
	}
	for i := range d.Subscriptions {
		if d.Subscriptions[i].CredentialID != "" {
			t.Errorf("Reference %d not cleared: %q", i, d.Subscriptions[i].CredentialID)
		}
	}

	if d.RemoveCredential("cred-1") {
		t.Error("Removing a missing credential should report false")
	}
}

func TestRemoveSubscription(t *testing.T) {
	d := NewData()
	d.Subscriptions = append(d.Subscriptions, validSubscription())

	if !d.RemoveSubscription("sub-1") {
		t.Fatal("Failed to remove subscription")
	}
	if len(d.Subscriptions) != 0 {
		t.Errorf("Subscription count after removal: %d", len(d.Subscriptions))
	}
	if d.RemoveSubscription("sub-1") {
		t.Error("Removing a missing subscription should report false")
	}
}

func TestBlobEncodeParse(t *testing.T) {
	blob := &EncryptedBlob{
		Salt: make([]byte, crypto.SaltSize),
		IV:   make([]byte, crypto.NonceSize),
		Data: make([]byte, crypto.TagSize+8),
	}

	raw, err := blob.Encode()
	if err != nil {
		t.Fatalf("Failed to encode blob: %v", err)
	}

	// The wire form is JSON with base64 string fields.
	var wire map[string]string
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("Blob is not flat JSON: %v", err)
	}
	for _, field := range []string{"salt", "iv", "data"} {
		if _, ok := wire[field]; !ok {
			t.Errorf("Missing field %q in wire form", field)
		}
	}

	parsed, err := ParseBlob(raw)
	if err != nil {
		t.Fatalf("Failed to parse blob: %v", err)
	}
	if len(parsed.Salt) != crypto.SaltSize || len(parsed.IV) != crypto.NonceSize {
		t.Error("Parsed blob sizes do not match")
	}
}

func TestParseBlobRejectsMalformed(t *testing.T) {
	if _, err := ParseBlob([]byte("not json")); err == nil {
		t.Error("Non-JSON input should be rejected")
	}

	bad := &EncryptedBlob{
		Salt: make([]byte, crypto.SaltSize-1),
		IV:   make([]byte, crypto.NonceSize),
		Data: make([]byte, crypto.TagSize),
	}
	raw, err := bad.Encode()
	if err != nil {
		t.Fatalf("Failed to encode blob: %v", err)
	}
	if _, err := ParseBlob(raw); err == nil {
		t.Error("Short salt should be rejected")
	}

	bad = &EncryptedBlob{
		Salt: make([]byte, crypto.SaltSize),
		IV:   make([]byte, crypto.NonceSize),
		Data: make([]byte, crypto.TagSize-1),
	}
	raw, err = bad.Encode()
	if err != nil {
		t.Fatalf("Failed to encode blob: %v", err)
	}
	if _, err := ParseBlob(raw); err == nil {
		t.Error("Ciphertext shorter than the tag should be rejected")
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		currency string
		cost     float64
		want     string
	}{
		{"USD", 15.99, "$15.99"},
		{"CNY", 30, "¥30"},
		{"EUR", 9.99, "€9.99"},
		{"HKD", 78, "HK$78"},
		{"JPY", 1200, "JPY1200"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.currency, tt.cost); got != tt.want {
			t.Errorf("FormatCurrency(%q, %v) = %q, want %q", tt.currency, tt.cost, got, tt.want)
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		amount int
		unit   FrequencyUnit
		want   string
	}{
		{1, Months, "every month"},
		{3, Months, "every 3 months"},
		{1, Days, "every day"},
		{2, Weeks, "every 2 weeks"},
		{1, Years, "every year"},
		{1, Permanent, "lifetime"},
	}

	for _, tt := range tests {
		if got := FormatFrequency(tt.amount, tt.unit); got != tt.want {
			t.Errorf("FormatFrequency(%d, %s) = %q, want %q", tt.amount, tt.unit, got, tt.want)
		}
	}
}

func TestFrequencyUnitValid(t *testing.T) {
	for _, u := range []FrequencyUnit{Days, Weeks, Months, Years, Permanent} {
		if !u.Valid() {
			t.Errorf("%s should be valid", u)
		}
	}
	for _, u := range []FrequencyUnit{"", "months", "SOMETIMES"} {
		if u.Valid() {
			t.Errorf("%q should not be valid", u)
		}
	}
}

func TestDataJSONShape(t *testing.T) {
	d := NewData()
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Failed to marshal vault: %v", err)
	}

	// Empty collections marshal as arrays, not null.
	s := string(raw)
	if strings.Contains(s, "null") {
		t.Errorf("Empty vault should have no null fields: %s", s)
	}
	if !strings.Contains(s, `"credentials":[]`) || !strings.Contains(s, `"subscriptions":[]`) {
		t.Errorf("Unexpected empty vault shape: %s", s)
	}
}
