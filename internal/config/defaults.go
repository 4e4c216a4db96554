package config

import (
	"os"
	"path/filepath"
	"time"
)

const appDirName = "go-vault-envelope"

func serverDefaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: "info",
		},
		Crypto: Crypto{
			MaxConcurrentDerivations: 2,
		},
		Storage: Storage{
			Backend: BackendFile,
			File:    FileStorage{Dir: "blobs"},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			GRPCAddress:     "localhost:9090",
			RequestTimeout:  Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			TokenIssuer:     "vault-blobserver",
			TokenDuration:   Duration(time.Hour),
			MaxBlobSize:     16 << 20,
		},
	}
}

func cliDefaults() *StructuredConfig {
	dir := userDataDir()
	return &StructuredConfig{
		App: App{
			LogLevel: "info",
			LogFile:  filepath.Join(dir, "vault.log"),
		},
		Crypto: Crypto{
			MaxConcurrentDerivations: 1,
		},
		Storage: Storage{
			Backend: BackendFile,
			File:    FileStorage{Dir: filepath.Join(dir, "vaults")},
		},
		Remote: Remote{
			RequestTimeout: Duration(30 * time.Second),
			RetryCount:     2,
		},
	}
}

// userDataDir is the per-user directory for vault files and logs.
func userDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName)
	}
	return "." + appDirName
}
