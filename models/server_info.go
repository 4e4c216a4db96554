package models

// ServerInfo describes what a blob server accepts. Clients read it from
// GET /api/info before uploading.
type ServerInfo struct {
	Version            string   `json:"version"`
	EnvelopeVersion    int      `json:"envelopeVersion"`
	CipherSuites       []string `json:"cipherSuites"`
	DefaultCipherSuite string   `json:"defaultCipherSuite"`
	KDF                string   `json:"kdf"`
	ValidateEnvelopes  bool     `json:"validateEnvelopes"`
	MaxBlobSize        int64    `json:"maxBlobSize"`
}
