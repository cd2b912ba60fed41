package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	return db
}

func TestOpenAndInitialize(t *testing.T) {
	db := newTestStore(t)

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}
}

func TestBlobRoundTrip(t *testing.T) {
	db := newTestStore(t)

	// Nothing stored yet.
	if _, err := db.LoadBlob(); !errors.Is(err, ErrNoVault) {
		t.Fatalf("Expected ErrNoVault, got %v", err)
	}

	blob := []byte(`{"salt":"AAAA","iv":"BBBB","data":"CCCC"}`)
	if err := db.SaveBlob(blob); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}

	loaded, err := db.LoadBlob()
	if err != nil {
		t.Fatalf("Failed to load blob: %v", err)
	}
	if !bytes.Equal(loaded, blob) {
		t.Errorf("Blob mismatch: got %s, want %s", loaded, blob)
	}

	// A later save replaces the blob.
	blob2 := []byte(`{"salt":"DDDD","iv":"EEEE","data":"FFFF"}`)
	if err := db.SaveBlob(blob2); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}
	loaded, err = db.LoadBlob()
	if err != nil {
		t.Fatalf("Failed to load blob: %v", err)
	}
	if !bytes.Equal(loaded, blob2) {
		t.Errorf("Blob not replaced: got %s, want %s", loaded, blob2)
	}
}

func TestTimestamps(t *testing.T) {
	db := newTestStore(t)

	created, err := db.GetCreated()
	if err != nil {
		t.Fatalf("Failed to get created time: %v", err)
	}
	modified, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified time: %v", err)
	}
	if created.IsZero() || modified.IsZero() {
		t.Error("Timestamps should be set by Initialize")
	}

	if err := db.SaveBlob([]byte("blob")); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}

	after, err := db.GetModified()
	if err != nil {
		t.Fatalf("Failed to get modified time: %v", err)
	}
	if after.Before(modified) {
		t.Error("SaveBlob should advance the modified time")
	}
}

func TestVaultID(t *testing.T) {
	db := newTestStore(t)

	// Not set until first requested.
	if _, err := db.GetVaultID(); err == nil {
		t.Error("Vault ID should not exist before creation")
	}

	id1, err := db.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("Failed to create vault ID: %v", err)
	}
	if len(id1) != 32 {
		t.Errorf("Vault ID length: got %d, want 32 hex chars", len(id1))
	}

	id2, err := db.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("Failed to get vault ID: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Vault ID should be stable: %s vs %s", id1, id2)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	blob := []byte("sealed vault bytes")
	if err := db.SaveBlob(blob); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}
	db.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	loaded, err := db2.LoadBlob()
	if err != nil {
		t.Fatalf("Failed to load blob: %v", err)
	}
	if !bytes.Equal(loaded, blob) {
		t.Error("Blob not persisted across reopen")
	}
}

func TestCompact(t *testing.T) {
	db := newTestStore(t)

	blob := []byte("sealed vault bytes")
	if err := db.SaveBlob(blob); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Failed to compact: %v", err)
	}

	// Data survives compaction and the store remains usable.
	loaded, err := db.LoadBlob()
	if err != nil {
		t.Fatalf("Failed to load blob after compact: %v", err)
	}
	if !bytes.Equal(loaded, blob) {
		t.Error("Blob lost during compaction")
	}

	if err := db.SaveBlob([]byte("another blob")); err != nil {
		t.Errorf("Store not writable after compact: %v", err)
	}
}
