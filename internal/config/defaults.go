package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *StructuredConfig {
	master := crypto.DefaultMasterKDFParams()
	export := crypto.DefaultExportKDFParams()

	return &StructuredConfig{
		App: App{
			Name:     "go-pass-vault",
			LogLevel: "info",
			LogFile:  defaultDataPath("vault.log"),
		},
		KDF: KDF{
			Type:        string(master.Type),
			Iterations:  master.Iterations,
			Memory:      master.Memory,
			Parallelism: master.Parallelism,
		},
		Crypto: Crypto{
			Cipher: string(crypto.AlgorithmAES256GCM),
		},
		Export: Export{
			KDF: KDF{
				Type:       string(export.Type),
				Iterations: export.Iterations,
			},
			Encoding: "json",
		},
		Generator: Generator{
			Length:    20,
			Words:     4,
			Separator: "-",
		},
		Session: Session{
			AutoLock:         5 * time.Minute,
			UnlockBackoff:    time.Second,
			UnlockBackoffMax: 30 * time.Second,
		},
		Storage: Storage{
			DB: DB{DSN: defaultDataPath("vault.db")},
		},
	}
}

// defaultDataPath places name under the per-user config directory, or in
// the working directory when there is none.
func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "go-pass-vault", name)
}
