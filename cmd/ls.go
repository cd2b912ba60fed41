package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/vault"
)

// Ls lists the subscriptions and credentials in the vault
func Ls(ctx context.Context) {
	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	data, err := sess.Snapshot()
	if err != nil {
		HandleError(err)
	}

	now := time.Now()

	fmt.Printf("Subscriptions (%d):\n", len(data.Subscriptions))
	if len(data.Subscriptions) == 0 {
		fmt.Println("  (none)")
	}
	for _, sub := range data.Subscriptions {
		state := ""
		if !sub.Active {
			state = " [inactive]"
		}
		fmt.Printf("  %s  %s, %s%s\n", sub.ID, sub.Name, vault.FormatCurrency(sub.Currency, sub.Cost), state)
		fmt.Printf("      %s, renews %s (%s), %.0f%% through cycle\n",
			vault.FormatFrequency(sub.FrequencyAmount, sub.FrequencyUnit),
			sub.RenewalDate,
			remainingLabel(sub.RenewalDate, now),
			progressOrFull(sub.StartDate, sub.RenewalDate, now))
		if sub.CredentialID != "" {
			if cred := data.FindCredential(sub.CredentialID); cred != nil {
				fmt.Printf("      login: %s\n", cred.Label)
			}
		}
	}

	fmt.Printf("\nCredentials (%d):\n", len(data.Credentials))
	if len(data.Credentials) == 0 {
		fmt.Println("  (none)")
	}
	for _, cred := range data.Credentials {
		fmt.Printf("  %s  %s (%s)\n", cred.ID, cred.Label, cred.Username)
	}
}

func remainingLabel(renewalDate string, now time.Time) string {
	days, infinite, err := vault.DaysRemaining(renewalDate, now)
	if err != nil {
		return "unknown"
	}
	if infinite {
		return "never"
	}
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

func progressOrFull(startDate, renewalDate string, now time.Time) float64 {
	progress, err := vault.CycleProgress(startDate, renewalDate, now)
	if err != nil {
		return 100
	}
	return progress
}
