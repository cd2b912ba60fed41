package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/qinsehm1128/subvault/internal/session"
)

// Export writes the sealed vault blob to a backup file. The blob is
// opaque, so no passphrase is required.
func Export(outPath string) {
	store := openStore()
	defer store.Close()

	if outPath == "" {
		outPath = fmt.Sprintf("SubVault_Export_%d.json", time.Now().UnixMilli())
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	sess := session.New(store)
	if err := sess.Export(f); err != nil {
		f.Close()
		os.Remove(outPath)
		HandleError(err)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("exported: %s\n", outPath)
}

// Import replaces the stored vault blob with a previously exported
// backup. Only the shape is checked here; the next unlock verifies
// the backup against the passphrase.
func Import(inPath string) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	store := openStore()
	defer store.Close()

	sess := session.New(store)
	if err := sess.Import(raw); err != nil {
		HandleError(err)
	}

	fmt.Printf("imported: %s\n", inPath)
	fmt.Println("Run 'subvault ls' to verify the backup decrypts with your passphrase")
}
