// Package crypto provides the sealing engine for subvault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the master passphrase via PBKDF2
//   - 12-byte random nonce per seal operation, stored alongside the
//     ciphertext rather than prepended to it
//   - Authenticated encryption prevents tampering
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted)
//   - 100,000 iterations
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
