package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/keyring"
	"github.com/qinsehm1128/subvault/internal/session"
	"github.com/qinsehm1128/subvault/internal/storage"
	"github.com/qinsehm1128/subvault/internal/vault"
)

// VaultFile is the default database file name in the current directory.
const VaultFile = "subvault.db"

// vaultPath returns the vault database location, honoring the
// SUBVAULT_FILE override.
func vaultPath() string {
	if path := os.Getenv("SUBVAULT_FILE"); path != "" {
		return path
	}
	return VaultFile
}

// openStore opens an existing vault database or exits with a hint.
func openStore() *storage.Store {
	path := vaultPath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: no vault found at %s\n", path)
		fmt.Fprintf(os.Stderr, "Run 'subvault init' first\n")
		os.Exit(1)
	}

	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return store
}

// PassphraseSource records where a passphrase came from, so commands
// can offer to cache manually entered ones.
type PassphraseSource int

const (
	SourceEnv PassphraseSource = iota
	SourceKeyring
	SourcePrompt
)

// GetPassphrase resolves the passphrase: environment variable first,
// then the OS keyring (by vault ID), then an interactive prompt.
// The caller is responsible for crypto.ClearBytes on the result.
func GetPassphrase(prompt string, vaultID string) ([]byte, PassphraseSource, error) {
	if passphrase := PassphraseFromEnv(); passphrase != nil {
		return passphrase, SourceEnv, nil
	}

	if vaultID != "" {
		if cached, err := keyring.GetPassphrase(vaultID); err == nil {
			return []byte(cached), SourceKeyring, nil
		}
	}

	passphrase, err := ReadPassphrase(prompt)
	if err != nil {
		return nil, SourcePrompt, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, SourcePrompt, nil
}

// OfferToSavePassphrase asks whether to cache a manually entered
// passphrase in the OS keyring. Declining is the default.
func OfferToSavePassphrase(vaultID string, passphrase []byte) {
	offerToSavePassphrase(os.Stdin, os.Stdout, vaultID, passphrase)
}

func offerToSavePassphrase(in io.Reader, out io.Writer, vaultID string, passphrase []byte) {
	fmt.Fprint(out, "Save passphrase to OS keyring? [y/N]: ")

	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	if response != "y" && response != "yes" {
		return
	}

	if err := keyring.SavePassphrase(vaultID, string(passphrase)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Fprintln(out, "Passphrase saved to keyring")
}

// unlockSession opens the store, resolves the passphrase and unlocks.
// A stale keyring entry is dropped and falls back to an interactive
// prompt; a passphrase entered at the prompt is offered for caching.
func unlockSession(ctx context.Context) (*storage.Store, *session.Session, []byte) {
	store := openStore()
	vaultID, _ := store.GetVaultID()

	passphrase, source, err := GetPassphrase("Enter passphrase: ", vaultID)
	if err != nil {
		store.Close()
		HandleError(err)
	}

	sess := session.New(store)
	if _, err := sess.Unlock(ctx, passphrase); err != nil {
		if errors.Is(err, session.ErrAuthenticationFailed) && source == SourceKeyring {
			// Cached passphrase no longer matches; ask directly.
			keyring.Invalidate(vaultID)
			crypto.ClearBytes(passphrase)
			passphrase, source, err = GetPassphrase("Enter passphrase: ", "")
			if err == nil {
				_, err = sess.Unlock(ctx, passphrase)
			}
		}
		if err != nil {
			crypto.ClearBytes(passphrase)
			store.Close()
			HandleError(err)
		}
	}

	if source == SourcePrompt {
		if id, err := store.GetOrCreateVaultID(); err == nil {
			OfferToSavePassphrase(id, passphrase)
		}
	}

	return store, sess, passphrase
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, session.ErrAuthenticationFailed):
		fmt.Fprintf(os.Stderr, "Error: invalid passphrase, try again\n")
	case errors.Is(err, session.ErrPersistence):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Changes were not saved; retry the operation\n")
	case errors.Is(err, session.ErrLocked):
		fmt.Fprintf(os.Stderr, "Error: vault is locked\n")
	case errors.Is(err, session.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, vault.ErrInvalid):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	case errors.Is(err, storage.ErrNoVault):
		fmt.Fprintf(os.Stderr, "Error: vault is empty\n")
		fmt.Fprintf(os.Stderr, "Run 'subvault init' first\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
