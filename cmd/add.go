package cmd

import (
	"context"
	"fmt"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/session"
	"github.com/qinsehm1128/subvault/internal/vault"
)

// AddSubscription stores a new subscription in the vault
func AddSubscription(ctx context.Context, in session.SubscriptionInput) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	sub, err := sess.AddSubscription(ctx, in)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added: %s (%s)\n", sub.Name, sub.ID)
	fmt.Printf("  %s %s, renews %s\n",
		vault.FormatCurrency(sub.Currency, sub.Cost),
		vault.FormatFrequency(sub.FrequencyAmount, sub.FrequencyUnit),
		sub.RenewalDate)
}

// AddCredential stores a new credential in the vault. The secret is
// prompted for, never taken from argv.
func AddCredential(ctx context.Context, in session.CredentialInput) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	if in.Password == "" {
		secret, err := ReadPassphrase("Password for this login (empty to skip): ")
		if err != nil {
			HandleError(err)
		}
		in.Password = string(secret)
		crypto.ClearBytes(secret)
	}

	cred, err := sess.AddCredential(ctx, in)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("added: %s (%s)\n", cred.Label, cred.ID)
}
