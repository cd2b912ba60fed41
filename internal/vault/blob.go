package vault

import (
	"encoding/json"
	"fmt"

	"github.com/qinsehm1128/subvault/internal/crypto"
)

// EncryptedBlob is the persisted form of the vault: the KDF salt, the
// GCM nonce and the ciphertext with attached authentication tag. The
// byte fields marshal to base64 strings, so the on-disk encoding is
//
//	{"salt": <base64>, "iv": <base64>, "data": <base64>}
type EncryptedBlob struct {
	Salt []byte `json:"salt"`
	IV   []byte `json:"iv"`
	Data []byte `json:"data"`
}

// ParseBlob decodes and shape-checks an encrypted blob. It does not
// verify the ciphertext; only unsealing can do that.
func ParseBlob(raw []byte) (*EncryptedBlob, error) {
	var blob EncryptedBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("malformed vault blob: %w", err)
	}
	if len(blob.Salt) != crypto.SaltSize {
		return nil, fmt.Errorf("malformed vault blob: salt is %d bytes, want %d", len(blob.Salt), crypto.SaltSize)
	}
	if len(blob.IV) != crypto.NonceSize {
		return nil, fmt.Errorf("malformed vault blob: iv is %d bytes, want %d", len(blob.IV), crypto.NonceSize)
	}
	if len(blob.Data) < crypto.TagSize {
		return nil, fmt.Errorf("malformed vault blob: ciphertext too short")
	}
	return &blob, nil
}

// Encode marshals the blob to its JSON wire form.
func (b *EncryptedBlob) Encode() ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vault blob: %w", err)
	}
	return raw, nil
}
