// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

// StructuredConfig is the top-level configuration container for the
// go-pass-vault engine. It aggregates all sub-configurations and is
// populated by merging built-in defaults, an optional JSON file,
// environment variables and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings: name, version and logging.
	App App `envPrefix:"APP_"`

	// KDF holds the key-derivation parameters used for new master-password
	// records (setup and password change).
	KDF KDF `envPrefix:"KDF_"`

	// Crypto selects the AEAD construction for new field and export
	// ciphertexts.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Export holds the settings of password-protected export files.
	Export Export `envPrefix:"EXPORT_"`

	// Generator holds the defaults of the password generator.
	Generator Generator `envPrefix:"GENERATOR_"`

	// Session holds vault session timing.
	Session Session `envPrefix:"SESSION_"`

	// Storage holds the security-record database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Name is stamped into export metadata as the producing application.
	// Env: APP_NAME
	Name string `env:"NAME"`

	// Version is the semantic version string of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is where the CLI writes its JSON log. Empty means stderr.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// KDF is a salt-less key-derivation template.
type KDF struct {
	// Type is "argon2id" or "pbkdf2-sha256".
	// Env: KDF_TYPE
	Type string `env:"TYPE"`

	// Iterations is the time cost (Argon2id passes or PBKDF2 rounds).
	// Env: KDF_ITERATIONS
	Iterations int `env:"ITERATIONS"`

	// Memory is the Argon2id memory cost in KiB. Zero for PBKDF2.
	// Env: KDF_MEMORY
	Memory int `env:"MEMORY"`

	// Parallelism is the Argon2id lane count. Zero for PBKDF2.
	// Env: KDF_PARALLELISM
	Parallelism int `env:"PARALLELISM"`
}

// Params converts k to the crypto template.
func (k KDF) Params() crypto.KDFParams {
	return crypto.KDFParams{
		Type:        crypto.KDFType(k.Type),
		Iterations:  k.Iterations,
		Memory:      k.Memory,
		Parallelism: k.Parallelism,
	}
}

// normalized drops the Argon2id-only costs from a PBKDF2 template, so a
// type switched by a higher-priority source does not inherit them.
func (k KDF) normalized() KDF {
	if crypto.KDFType(k.Type) == crypto.KDFTypePBKDF2 {
		k.Memory = 0
		k.Parallelism = 0
	}
	return k
}

// Crypto holds cipher selection.
type Crypto struct {
	// Cipher is "AES-256-GCM" or "CHACHA20-POLY1305".
	// Env: CRYPTO_CIPHER
	Cipher string `env:"CIPHER"`
}

// Export holds export file settings.
type Export struct {
	// KDF derives the export key from the export password.
	KDF KDF `envPrefix:"KDF_"`

	// Encoding is "json" or "cbor".
	// Env: EXPORT_ENCODING
	Encoding string `env:"ENCODING"`
}

// Generator holds password generator defaults.
type Generator struct {
	// Length is the character-pool password length.
	// Env: GENERATOR_LENGTH
	Length int `env:"LENGTH"`

	// ExcludeSimilar drops look-alike characters from the pool.
	// Env: GENERATOR_EXCLUDE_SIMILAR
	ExcludeSimilar bool `env:"EXCLUDE_SIMILAR"`

	// Words is the memorable-mode word count.
	// Env: GENERATOR_WORDS
	Words int `env:"WORDS"`

	// Separator joins memorable-mode words.
	// Env: GENERATOR_SEPARATOR
	Separator string `env:"SEPARATOR"`
}

// Session holds vault session timing. Because zero values never override
// defaults, a negative duration is used to switch a feature off.
type Session struct {
	// AutoLock locks an unlocked vault after this much inactivity.
	// Env: SESSION_AUTO_LOCK
	AutoLock time.Duration `env:"AUTO_LOCK"`

	// UnlockBackoff is the delay after the first failed unlock; it doubles
	// with each further failure.
	// Env: SESSION_UNLOCK_BACKOFF
	UnlockBackoff time.Duration `env:"UNLOCK_BACKOFF"`

	// UnlockBackoffMax caps UnlockBackoff.
	// Env: SESSION_UNLOCK_BACKOFF_MAX
	UnlockBackoffMax time.Duration `env:"UNLOCK_BACKOFF_MAX"`
}

// Storage groups persistence settings.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the security-record store.
type DB struct {
	// DSN selects the backend: "postgres://..." or "postgresql://..." for
	// PostgreSQL, anything else is a SQLite file path or "file:" URI.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in the following priority order (last source wins for
// non-zero fields):
//  1. Built-in defaults
//  2. JSON file (path resolved from env and flags)
//  3. Environment variables
//  4. Command-line flags parsed from args
//
// It returns the config and the positional arguments left after the flags.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args)

	cfg, err := b.withJSON().build()
	return cfg, b.rest, err
}
