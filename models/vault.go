package models

import (
	"encoding/json"
	"time"
)

// VaultContent is the plaintext of a vault: string keys mapped to arbitrary
// JSON values. The envelope enforces no schema on it.
type VaultContent map[string]any

// VaultRecord is the document the vault service seals. SavedAt is opaque to
// the cryptographic layer and only helps users tell copies apart.
type VaultRecord struct {
	Content json.RawMessage `json:"content"`
	SavedAt time.Time       `json:"savedAt"`
}

// BlobInfo describes one stored blob.
type BlobInfo struct {
	ID        string    `json:"id"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Vault is an opened vault record.
type Vault struct {
	Content VaultContent `json:"content"`
	// SavedAt is zero for documents sealed without a record wrapper.
	SavedAt time.Time `json:"savedAt,omitempty"`
}
