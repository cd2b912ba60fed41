package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // version, timestamps, vault id - unencrypted
	VaultBucket  = []byte("vault")  // the sealed vault blob
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigVaultID  = []byte("vault_id")
)

// BlobKey is the single key under which the sealed vault lives.
var BlobKey = []byte("blob")

// ErrNoVault is returned by LoadBlob when no sealed vault has been
// persisted yet. First unlock treats this as vault creation.
var ErrNoVault = errors.New("no vault stored")

// Store provides BBolt-based storage for the sealed vault blob
type Store struct {
	db *bolt.DB
}

// Open opens or creates a subvault database
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new vault database
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, VaultBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Store) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SaveBlob stores the sealed vault blob and stamps the modified time
// in the same transaction. The save is not acknowledged until the
// transaction commits.
func (s *Store) SaveBlob(raw []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		if vault == nil {
			return fmt.Errorf("vault bucket not found")
		}
		if err := vault.Put(BlobKey, raw); err != nil {
			return err
		}

		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		now := time.Now()
		modified, _ := now.MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// LoadBlob retrieves the sealed vault blob. Returns ErrNoVault when
// nothing has been persisted yet.
func (s *Store) LoadBlob() ([]byte, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		if vault == nil {
			return ErrNoVault
		}
		data := vault.Get(BlobKey)
		if data == nil {
			return ErrNoVault
		}
		// Make a copy since the slice is only valid during the transaction
		raw = append([]byte(nil), data...)
		return nil
	})
	return raw, err
}

// GetCreated retrieves the creation timestamp
func (s *Store) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Store) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

func (s *Store) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// GetVaultID retrieves the vault ID from the config bucket
func (s *Store) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Store) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// Compact creates a compacted copy of the database, removing unused
// space. Rewriting the blob on every mutation leaves dead pages behind.
func (s *Store) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	// Reopen database
	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
