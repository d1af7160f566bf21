package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags parses the global flags from args on a private FlagSet and
// returns the remaining positional arguments.
//
// Flags:
//
//	-c/-config        json file path with configs
//	-d                database DSN
//	-log-level        zerolog level
//	-log-file         log file path
//	-kdf-type         master KDF ("argon2id" | "pbkdf2-sha256")
//	-kdf-iterations   master KDF time cost
//	-kdf-memory       master KDF memory cost, KiB
//	-kdf-parallelism  master KDF lanes
//	-cipher           AEAD for new ciphertexts
//	-export-encoding  export file encoding ("json" | "cbor")
//	-auto-lock        idle time before the vault locks (e.g. "5m")
func parseFlags(args []string) (*StructuredConfig, []string, error) {
	var (
		jsonConfigPath string
		databaseDSN    string
		logLevel       string
		logFile        string
		kdfType        string
		kdfIterations  int
		kdfMemory      int
		kdfParallelism int
		cipher         string
		exportEncoding string
		autoLock       time.Duration
	)

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&kdfType, "kdf-type", "", "Master key derivation function")
	fs.IntVar(&kdfIterations, "kdf-iterations", 0, "Master KDF iterations")
	fs.IntVar(&kdfMemory, "kdf-memory", 0, "Master KDF memory in KiB")
	fs.IntVar(&kdfParallelism, "kdf-parallelism", 0, "Master KDF parallelism")
	fs.StringVar(&cipher, "cipher", "", "AEAD cipher for new ciphertexts")
	fs.StringVar(&exportEncoding, "export-encoding", "", "Export file encoding (json|cbor)")
	fs.DurationVar(&autoLock, "auto-lock", 0, "Idle time before the vault locks (e.g. 5m)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: logLevel,
			LogFile:  logFile,
		},
		KDF: KDF{
			Type:        kdfType,
			Iterations:  kdfIterations,
			Memory:      kdfMemory,
			Parallelism: kdfParallelism,
		},
		Crypto: Crypto{Cipher: cipher},
		Export: Export{Encoding: exportEncoding},
		Session: Session{
			AutoLock: autoLock,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		JSONFilePath: jsonConfigPath,
	}

	return cfg, fs.Args(), nil
}
