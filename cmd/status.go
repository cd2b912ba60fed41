package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/storage"
)

// Status shows the vault state without requiring a passphrase
func Status() {
	path := vaultPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No vault found at %s\n", path)
			fmt.Println("Run 'subvault init' to create one")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Printf("Vault: %s\n", path)

	raw, err := store.LoadBlob()
	switch {
	case errors.Is(err, storage.ErrNoVault):
		fmt.Println("Sealed data: none")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	default:
		fmt.Printf("Sealed data: %d bytes\n", len(raw))
	}

	if created, err := store.GetCreated(); err == nil {
		fmt.Printf("Created: %s\n", created.Format(time.RFC3339))
	}
	if modified, err := store.GetModified(); err == nil {
		fmt.Printf("Last saved: %s\n", modified.Format(time.RFC3339))
	}

	fmt.Printf("Encryption: AES-256-GCM\n")
	fmt.Printf("KDF: PBKDF2-SHA256, %d iterations\n", crypto.DefaultIters)
}
