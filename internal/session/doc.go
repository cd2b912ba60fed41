// Package session provides the vault lifecycle controller.
//
// A Session moves between two states: locked (initial) and unlocked.
// Unlock derives the key and decrypts the stored blob, or creates and
// persists an empty vault when none exists. Every mutation produces a
// new vault snapshot that is sealed and saved before the in-memory
// state advances, so memory and storage never disagree. Lock discards
// the plaintext vault and zeroes the key.
//
// The session is an explicit object with an unlock/lock lifecycle
// rather than package-level state, and it serializes all calls
// internally. Go strings cannot be zeroed, so locking drops plaintext
// record references for the garbage collector; the derived key, held
// as a byte slice, is zeroed in place.
package session
