package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and no layers.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no layers returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_HigherPriorityWins verifies that layers override each other by
// priority, not by insertion order, and that zero fields never override.
func TestBuild_HigherPriorityWins(t *testing.T) {
	b := newConfigBuilder()
	b.add(priorityFlags, &StructuredConfig{App: App{LogLevel: "debug"}})
	b.add(priorityEnv, &StructuredConfig{App: App{LogLevel: "warn", Version: "1.0.0"}})
	b.add(priorityDefaults, &StructuredConfig{
		App:    App{LogLevel: "info", Version: "0.0.0", LogFile: "vault.log"},
		Server: Server{RequestTimeout: Duration(time.Second)},
	})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "vault.log", cfg.App.LogFile)
	assert.Equal(t, time.Second, cfg.Server.RequestTimeout.Std())
}

// TestBuild_MergesMaps verifies that api keys from several layers combine.
func TestBuild_MergesMaps(t *testing.T) {
	b := newConfigBuilder()
	b.add(priorityFile, &StructuredConfig{Server: Server{APIKeys: map[string]string{"k1": "alice"}}})
	b.add(priorityEnv, &StructuredConfig{Server: Server{APIKeys: map[string]string{"k2": "bob"}}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k1": "alice", "k2": "bob"}, cfg.Server.APIKeys)
}

// ── withFile ──────────────────────────────────────────────────────────────────

// TestWithFile_PathFromHighestPrioritySource verifies that the file named by
// flags is preferred over the one named by the environment.
func TestWithFile_PathFromHighestPrioritySource(t *testing.T) {
	envFile := writeConfigFile(t, "env.json", `{"app": {"version": "from-env-file"}}`)
	flagFile := writeConfigFile(t, "flag.json", `{"app": {"version": "from-flag-file"}}`)

	b := newConfigBuilder()
	b.add(priorityFlags, &StructuredConfig{FilePath: flagFile})
	b.add(priorityEnv, &StructuredConfig{FilePath: envFile})

	cfg, err := b.withFile("").build()
	require.NoError(t, err)
	assert.Equal(t, "from-flag-file", cfg.App.Version)
	assert.Equal(t, flagFile, cfg.FilePath)
}

// TestWithFile_EnvOverridesFile verifies that the file sits below env.
func TestWithFile_EnvOverridesFile(t *testing.T) {
	p := writeConfigFile(t, "c.yaml", "app:\n  log_level: error\n  version: file\n")

	b := newConfigBuilder()
	b.add(priorityEnv, &StructuredConfig{App: App{LogLevel: "debug"}})

	cfg, err := b.withFile(p).build()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "file", cfg.App.Version)
}

// TestWithFile_NoPath verifies that a builder without any path skips the file.
func TestWithFile_NoPath(t *testing.T) {
	b := newConfigBuilder().withFile("")
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// TestWithFile_Error verifies that a broken file is reported by build.
func TestWithFile_Error(t *testing.T) {
	_, err := newConfigBuilder().withFile("/does/not/exist.json").build()
	assert.Error(t, err)
}

// ── entry points ──────────────────────────────────────────────────────────────

func TestGetCLIConfig(t *testing.T) {
	p := writeConfigFile(t, "cli.yaml", "storage:\n  backend: sqlite\n  sqlite:\n    dsn: file:test.db\n")
	t.Setenv("CRYPTO_CIPHER_SUITE", "ChaCha20-Poly1305")

	cfg, err := GetCLIConfig(p)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "ChaCha20-Poly1305", cfg.Crypto.CipherSuite)
	assert.Equal(t, int64(1), cfg.Crypto.MaxConcurrentDerivations)
	assert.NotEmpty(t, cfg.App.LogFile)
}

func TestGetCLIConfig_RemoteNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "remote")

	_, err := GetCLIConfig("")
	assert.ErrorIs(t, err, ErrInvalidRemoteConfigs)
}
