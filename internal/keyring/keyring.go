package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "subvault"

// SavePassphrase stores a passphrase in the OS keyring
func SavePassphrase(vaultID string, passphrase string) error {
	return keyring.Set(serviceName, vaultID, passphrase)
}

// GetPassphrase retrieves a passphrase from the OS keyring
func GetPassphrase(vaultID string) (string, error) {
	return keyring.Get(serviceName, vaultID)
}

// DeletePassphrase removes a passphrase from the OS keyring
func DeletePassphrase(vaultID string) error {
	return keyring.Delete(serviceName, vaultID)
}

// HasPassphrase checks if a passphrase is stored in the keyring
func HasPassphrase(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}

// Invalidate drops a cached passphrase that no longer unlocks the
// vault, so the next resolution falls through to a prompt. A missing
// entry is not an error; the entry is gone either way.
func Invalidate(vaultID string) {
	_ = keyring.Delete(serviceName, vaultID)
}
