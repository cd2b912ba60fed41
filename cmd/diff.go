package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/qinsehm1128/subvault/internal/crypto"
	"github.com/qinsehm1128/subvault/internal/vault"
)

// Diff compares the current vault contents with a backup export,
// decrypting both with the same passphrase.
func Diff(ctx context.Context, backupPath string) {
	backupRaw, err := os.ReadFile(backupPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	store, sess, passphrase := unlockSession(ctx)
	defer store.Close()
	defer sess.Lock()
	defer crypto.ClearBytes(passphrase)

	data, err := sess.Snapshot()
	if err != nil {
		HandleError(err)
	}
	current, err := renderVault(data)
	if err != nil {
		HandleError(err)
	}

	backupData, err := decryptBackup(backupRaw, passphrase)
	if err != nil {
		HandleError(err)
	}
	backup, err := renderVault(backupData)
	if err != nil {
		HandleError(err)
	}

	diff := generateUnifiedDiff(backupPath, backup, current)
	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}

// decryptBackup unseals an exported blob. The backup carries its own
// salt, so the key is derived independently of the live session.
func decryptBackup(raw, passphrase []byte) (*vault.Data, error) {
	blob, err := vault.ParseBlob(raw)
	if err != nil {
		return nil, err
	}

	kdf := &crypto.KDF{Salt: blob.Salt, Iterations: crypto.DefaultIters}
	key := kdf.DeriveKey(passphrase)
	defer crypto.ClearBytes(key)

	enc := crypto.NewEncryptor(key)
	plaintext, err := enc.Open(blob.IV, blob.Data)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	data := vault.NewData()
	if err := json.Unmarshal(plaintext, data); err != nil {
		return nil, fmt.Errorf("backup: malformed vault payload: %w", err)
	}
	return data, nil
}

// renderVault produces a stable textual form of the vault for diffing.
func renderVault(data *vault.Data) ([]byte, error) {
	// lastUpdated changes on every save and would drown the diff
	trimmed := data.Clone()
	trimmed.LastUpdated = 0

	out, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render vault: %w", err)
	}
	return append(out, '\n'), nil
}

// generateUnifiedDiff generates a unified diff using the go-diff library.
// Returns empty string if both sides are identical.
func generateUnifiedDiff(path string, backupText, currentText []byte) string {
	if bytes.Equal(backupText, currentText) {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	backupStr, currentStr := string(backupText), string(currentText)
	a, b, lineArray := dmp.DiffLinesToChars(backupStr, currentStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(backupStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", path))
	result.WriteString("+++ current vault\n")
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
