package cmd

import (
	"context"
	"fmt"

	"github.com/qinsehm1128/subvault/internal/crypto"
)

// RmSubscription removes a subscription from the vault
func RmSubscription(ctx context.Context, id string) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	if err := sess.DeleteSubscription(ctx, id); err != nil {
		HandleError(err)
	}
	fmt.Printf("removed: subscription %s\n", id)
}

// RmCredential removes a credential from the vault. Subscriptions
// that referenced it are kept; their login link is cleared.
func RmCredential(ctx context.Context, id string) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	if err := sess.DeleteCredential(ctx, id); err != nil {
		HandleError(err)
	}
	fmt.Printf("removed: credential %s\n", id)
}
