package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/session"
	"github.com/qinsehm1128/subvault/internal/storage"
)

// Init creates a new vault database and seals an empty vault in it
func Init(ctx context.Context) {
	path := vaultPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		fmt.Fprintf(os.Stderr, "Use 'subvault status' to see current state\n")
		os.Exit(1)
	}

	// Read passphrase (env var or prompt with confirmation)
	passphrase := PassphraseFromEnv()
	if passphrase == nil {
		var err error
		passphrase, err = ReadPassphraseConfirm()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(passphrase)

	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	// First unlock on empty storage seals and persists an empty vault
	sess := session.New(store)
	if _, err := sess.Unlock(ctx, passphrase); err != nil {
		HandleError(err)
	}
	sess.Lock()

	fmt.Printf("✓ Initialized %s\n", path)
}
