// Package storage provides the BBolt database interface for subvault.
//
// Database structure uses two buckets:
//   - config: version, timestamps, vault id (unencrypted)
//   - vault: the sealed vault blob (salt, iv, ciphertext as JSON)
//
// The sealed blob is the only vault content ever written to disk; the
// unencrypted config bucket only enables `subvault status` and keyring
// lookup without requiring a passphrase.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
