package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestParseFile_JSON(t *testing.T) {
	p := writeConfigFile(t, "config.json", `{
		"app": {"log_level": "warn"},
		"kdf": {"time_cost": 4, "memory_cost_kib": 131072},
		"storage": {"backend": "sqlite", "sqlite": {"dsn": "file:vault.db"}},
		"server": {"http_address": "localhost:8080", "request_timeout": "30s", "token_duration": 3600000000000,
			"api_keys": {"k1": "alice"}},
		"workers": {"mirror_interval": "5m", "mirror": {"backend": "file", "file": {"dir": "/backup"}}}
	}`)

	cfg, err := parseFile(p)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, uint32(4), cfg.KDF.TimeCost)
	assert.Equal(t, uint32(131072), cfg.KDF.MemoryCostKiB)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "file:vault.db", cfg.Storage.SQLite.DSN)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout.Std())
	assert.Equal(t, time.Hour, cfg.Server.TokenDuration.Std())
	assert.Equal(t, map[string]string{"k1": "alice"}, cfg.Server.APIKeys)
	assert.Equal(t, 5*time.Minute, cfg.Workers.MirrorInterval.Std())
	assert.Equal(t, "/backup", cfg.Workers.Mirror.File.Dir)
}

func TestParseFile_YAML(t *testing.T) {
	p := writeConfigFile(t, "config.yaml", `
app:
  log_level: error
crypto:
  cipher_suite: ChaCha20-Poly1305
  max_concurrent_derivations: 4
storage:
  backend: s3
  s3:
    bucket: vaults
    region: eu-central-1
    use_path_style: true
remote:
  url: https://vault.example.com
  request_timeout: 15s
`)

	cfg, err := parseFile(p)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.App.LogLevel)
	assert.Equal(t, "ChaCha20-Poly1305", cfg.Crypto.CipherSuite)
	assert.Equal(t, int64(4), cfg.Crypto.MaxConcurrentDerivations)
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "vaults", cfg.Storage.S3.Bucket)
	assert.Equal(t, "eu-central-1", cfg.Storage.S3.Region)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, 15*time.Second, cfg.Remote.RequestTimeout.Std())
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "unknown json key", file: "c.json", body: `{"app": {"colour": "blue"}}`},
		{name: "unknown yaml key", file: "c.yml", body: "app:\n  colour: blue\n"},
		{name: "bad json duration", file: "c.json", body: `{"server": {"request_timeout": "soon"}}`},
		{name: "bad yaml duration", file: "c.yaml", body: "server:\n  request_timeout: soon\n"},
		{name: "broken json", file: "c.json", body: `{"app":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFile(writeConfigFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := parseFile(filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
