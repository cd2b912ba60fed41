package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/keyring"
	"github.com/qinsehm1128/subvault/internal/session"
)

// KeyringSave saves the passphrase to the OS keyring
func KeyringSave(ctx context.Context) {
	store := openStore()
	defer store.Close()

	passphrase, err := ReadPassphrase("Enter passphrase: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	// Verify the passphrase before caching it
	sess := session.New(store)
	if _, err := sess.Unlock(ctx, passphrase); err != nil {
		HandleError(err)
	}
	sess.Lock()

	vaultID, err := store.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassphrase(vaultID, string(passphrase)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Passphrase saved to keyring")
}

// KeyringDelete removes the passphrase from the OS keyring
func KeyringDelete() {
	store := openStore()
	defer store.Close()

	vaultID, err := store.GetVaultID()
	if err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}

	if err := keyring.DeletePassphrase(vaultID); err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}

	fmt.Println("Passphrase removed from keyring")
}

// KeyringStatus checks if a passphrase is stored in the keyring
func KeyringStatus() {
	store := openStore()
	defer store.Close()

	vaultID, err := store.GetVaultID()
	if err != nil {
		fmt.Println("Passphrase: not stored")
		return
	}

	if keyring.HasPassphrase(vaultID) {
		fmt.Println("Passphrase: stored in keyring")
	} else {
		fmt.Println("Passphrase: not stored")
	}
}
