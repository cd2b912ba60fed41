package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/storage"
	"github.com/qinsehm1128/subvault/internal/vault"
)

var (
	ErrLocked = errors.New("vault is locked")

	// ErrAuthenticationFailed is returned for a wrong passphrase and
	// for a tampered or corrupted blob alike; the session never tells
	// a caller which check failed.
	ErrAuthenticationFailed = errors.New("invalid passphrase or corrupted vault")

	// ErrPersistence wraps storage failures during mutation. The
	// mutation has been rolled back; retrying is safe.
	ErrPersistence = errors.New("vault could not be persisted")

	ErrNotFound = errors.New("record not found")
)

// BlobStore is the storage collaborator: an opaque slot for the sealed
// vault blob. LoadBlob reports absence with storage.ErrNoVault.
type BlobStore interface {
	LoadBlob() ([]byte, error)
	SaveBlob([]byte) error
}

// Session is the vault lifecycle controller. It is the sole owner of
// the derived key and the plaintext vault for the duration of the
// unlocked state; both are discarded on Lock. All operations are
// serialized through an internal mutex.
type Session struct {
	mu    sync.Mutex
	store BlobStore

	key  []byte
	salt []byte
	data *vault.Data
}

// New creates a locked session backed by the given store.
func New(store BlobStore) *Session {
	return &Session{store: store}
}

// Unlocked reports whether the session currently holds a vault.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key != nil
}

// Unlock derives the key from the passphrase and opens the vault. If
// no blob has been persisted yet this is vault creation: an empty
// vault is sealed under a fresh salt and saved before the session
// transitions to unlocked. Calling Unlock while already unlocked
// re-authenticates against the stored blob; on failure the existing
// unlocked state is left untouched.
func (s *Session) Unlock(ctx context.Context, passphrase []byte) (*vault.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.LoadBlob()
	if errors.Is(err, storage.ErrNoVault) {
		return s.create(passphrase)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load vault: %w", err)
	}

	blob, err := vault.ParseBlob(raw)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	kdf := &crypto.KDF{Salt: blob.Salt, Iterations: crypto.DefaultIters}
	key := kdf.DeriveKey(passphrase)

	enc := crypto.NewEncryptor(key)
	plaintext, err := enc.Open(blob.IV, blob.Data)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, ErrAuthenticationFailed
	}

	data := vault.NewData()
	err = json.Unmarshal(plaintext, data)
	crypto.ClearBytes(plaintext)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, ErrAuthenticationFailed
	}

	s.install(key, blob.Salt, data)
	return data.Clone(), nil
}

// create seals an empty vault under a fresh salt and persists it.
// Caller holds the mutex.
func (s *Session) create(passphrase []byte) (*vault.Data, error) {
	kdf, err := crypto.NewKDF()
	if err != nil {
		return nil, fmt.Errorf("failed to create KDF: %w", err)
	}
	key := kdf.DeriveKey(passphrase)

	data := vault.NewData()
	data.LastUpdated = time.Now().UnixMilli()

	if err := persist(s.store, key, kdf.Salt, data); err != nil {
		crypto.ClearBytes(key)
		return nil, err
	}

	s.install(key, kdf.Salt, data)
	return data.Clone(), nil
}

// install swaps in new key material, discarding any previous key.
// Caller holds the mutex.
func (s *Session) install(key, salt []byte, data *vault.Data) {
	if s.key != nil {
		crypto.ClearBytes(s.key)
	}
	s.key = key
	s.salt = salt
	s.data = data
}

// Lock discards the plaintext vault and zeroes the derived key. It is
// idempotent and has no persistence side effect: the last mutation's
// blob is already durable.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		crypto.ClearBytes(s.key)
	}
	s.key = nil
	s.salt = nil
	s.data = nil
}

// Snapshot returns a copy of the current vault for presentation.
func (s *Session) Snapshot() (*vault.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return nil, ErrLocked
	}
	return s.data.Clone(), nil
}

// AddCredential stores a new credential and persists the vault.
func (s *Session) AddCredential(ctx context.Context, in CredentialInput) (vault.Credential, error) {
	cred := vault.Credential{
		ID:        uuid.New().String(),
		Label:     in.Label,
		Username:  in.Username,
		Password:  in.Password,
		Notes:     in.Notes,
		CreatedAt: time.Now().UnixMilli(),
	}

	err := s.mutate(ctx, func(data *vault.Data) error {
		if err := cred.Validate(); err != nil {
			return err
		}
		data.Credentials = append(data.Credentials, cred)
		return nil
	})
	if err != nil {
		return vault.Credential{}, err
	}
	return cred, nil
}

// DeleteCredential removes a credential and clears every subscription
// reference to it. Referencing subscriptions are kept.
func (s *Session) DeleteCredential(ctx context.Context, id string) error {
	return s.mutate(ctx, func(data *vault.Data) error {
		if !data.RemoveCredential(id) {
			return fmt.Errorf("%w: credential %s", ErrNotFound, id)
		}
		return nil
	})
}

// AddSubscription stores a new subscription and persists the vault.
// The renewal date is always computed here; any caller-supplied value
// is ignored.
func (s *Session) AddSubscription(ctx context.Context, in SubscriptionInput) (vault.Subscription, error) {
	in.applyDefaults()
	sub := vault.Subscription{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Cost:            in.Cost,
		Currency:        in.Currency,
		FrequencyAmount: in.FrequencyAmount,
		FrequencyUnit:   in.FrequencyUnit,
		StartDate:       in.StartDate,
		Category:        in.Category,
		CredentialID:    in.CredentialID,
		Website:         in.Website,
		Active:          true,
	}

	err := s.mutate(ctx, func(data *vault.Data) error {
		if err := validateSubscription(data, &sub); err != nil {
			return err
		}
		renewal, err := vault.NextRenewal(sub.StartDate, sub.FrequencyAmount, sub.FrequencyUnit)
		if err != nil {
			return err
		}
		sub.RenewalDate = renewal
		data.Subscriptions = append(data.Subscriptions, sub)
		return nil
	})
	if err != nil {
		return vault.Subscription{}, err
	}
	return sub, nil
}

// UpdateSubscription replaces the mutable fields of an existing
// subscription and recomputes its renewal date.
func (s *Session) UpdateSubscription(ctx context.Context, id string, in SubscriptionInput) (vault.Subscription, error) {
	var updated vault.Subscription

	err := s.mutate(ctx, func(data *vault.Data) error {
		sub := data.FindSubscription(id)
		if sub == nil {
			return fmt.Errorf("%w: subscription %s", ErrNotFound, id)
		}

		next := *sub
		next.Name = in.Name
		next.Cost = in.Cost
		next.Currency = in.Currency
		next.FrequencyAmount = in.FrequencyAmount
		next.FrequencyUnit = in.FrequencyUnit
		next.StartDate = in.StartDate
		next.Category = in.Category
		next.CredentialID = in.CredentialID
		next.Website = in.Website
		next.Active = in.Active

		if err := validateSubscription(data, &next); err != nil {
			return err
		}
		renewal, err := vault.NextRenewal(next.StartDate, next.FrequencyAmount, next.FrequencyUnit)
		if err != nil {
			return err
		}
		next.RenewalDate = renewal

		*sub = next
		updated = next
		return nil
	})
	if err != nil {
		return vault.Subscription{}, err
	}
	return updated, nil
}

// DeleteSubscription removes a subscription.
func (s *Session) DeleteSubscription(ctx context.Context, id string) error {
	return s.mutate(ctx, func(data *vault.Data) error {
		if !data.RemoveSubscription(id) {
			return fmt.Errorf("%w: subscription %s", ErrNotFound, id)
		}
		return nil
	})
}

// validateSubscription runs field validation plus the join-time check
// on the weak credential reference.
func validateSubscription(data *vault.Data, sub *vault.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if sub.CredentialID != "" && data.FindCredential(sub.CredentialID) == nil {
		return fmt.Errorf("%w: credential %s does not exist", vault.ErrInvalid, sub.CredentialID)
	}
	return nil
}

// mutate applies one operation to a clone of the vault, persists the
// clone, and only then swaps it in. On any failure, whether validation
// or persistence, both memory and storage remain at the prior snapshot.
func (s *Session) mutate(ctx context.Context, apply func(*vault.Data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return ErrLocked
	}

	next := s.data.Clone()
	if err := apply(next); err != nil {
		return err
	}
	next.LastUpdated = time.Now().UnixMilli()

	if err := persist(s.store, s.key, s.salt, next); err != nil {
		return err
	}

	s.data = next
	return nil
}

// persist seals data under the given key and creation-time salt with a
// fresh nonce, and saves the blob. The salt is reused across re-seals;
// only nonce reuse would be unsafe.
func persist(store BlobStore, key, salt []byte, data *vault.Data) error {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	enc := crypto.NewEncryptor(key)
	nonce, ciphertext, err := enc.Seal(plaintext)
	crypto.ClearBytes(plaintext)
	if err != nil {
		return fmt.Errorf("failed to seal vault: %w", err)
	}

	blob := &vault.EncryptedBlob{Salt: salt, IV: nonce, Data: ciphertext}
	raw, err := blob.Encode()
	if err != nil {
		return err
	}

	if err := store.SaveBlob(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Export writes the stored blob as-is. It works while locked; the
// blob is already opaque.
func (s *Session) Export(w io.Writer) error {
	raw, err := s.store.LoadBlob()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import replaces the stored blob with a previously exported one after
// a shape check. The session is locked afterwards; the next unlock
// verifies the backup cryptographically.
func (s *Session) Import(raw []byte) error {
	if _, err := vault.ParseBlob(raw); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveBlob(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.key != nil {
		crypto.ClearBytes(s.key)
	}
	s.key = nil
	s.salt = nil
	s.data = nil
	return nil
}
