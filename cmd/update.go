package cmd

import (
	"context"
	"fmt"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/session"
)

// UpdateSubscription changes fields of an existing subscription. Only
// the fields named in set are taken from in; the rest keep their
// current values. The renewal date is recomputed either way.
func UpdateSubscription(ctx context.Context, id string, in session.SubscriptionInput, set map[string]bool) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	data, err := sess.Snapshot()
	if err != nil {
		HandleError(err)
	}
	current := data.FindSubscription(id)
	if current == nil {
		HandleError(fmt.Errorf("%w: subscription %s", session.ErrNotFound, id))
	}

	merged := session.SubscriptionInput{
		Name:            current.Name,
		Cost:            current.Cost,
		Currency:        current.Currency,
		FrequencyAmount: current.FrequencyAmount,
		FrequencyUnit:   current.FrequencyUnit,
		StartDate:       current.StartDate,
		Category:        current.Category,
		CredentialID:    current.CredentialID,
		Website:         current.Website,
		Active:          current.Active,
	}
	if set["name"] {
		merged.Name = in.Name
	}
	if set["cost"] {
		merged.Cost = in.Cost
	}
	if set["currency"] {
		merged.Currency = in.Currency
	}
	if set["every"] {
		merged.FrequencyAmount = in.FrequencyAmount
	}
	if set["unit"] {
		merged.FrequencyUnit = in.FrequencyUnit
	}
	if set["start"] {
		merged.StartDate = in.StartDate
	}
	if set["category"] {
		merged.Category = in.Category
	}
	if set["credential"] {
		merged.CredentialID = in.CredentialID
	}
	if set["website"] {
		merged.Website = in.Website
	}
	if set["active"] {
		merged.Active = in.Active
	}

	sub, err := sess.UpdateSubscription(ctx, id, merged)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("updated: %s, renews %s\n", sub.Name, sub.RenewalDate)
}
