// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-pass-vault/models"
)

// KDFType is the persisted tag naming a key-derivation algorithm.
type KDFType string

const (
	KDFTypePBKDF2   KDFType = "pbkdf2-sha256"
	KDFTypeArgon2id KDFType = "argon2id"
)

const (
	// SaltSize is the fixed salt length for every KDF config.
	SaltSize = 16

	// KeySize is the length of every derived and random key (AES-256).
	KeySize = 32
)

// Parameter limits. The lower bounds keep brute force expensive, the upper
// bounds stop a hostile container header from pinning the CPU or memory.
const (
	MinPBKDF2Iterations = 100_000
	MaxPBKDF2Iterations = 10_000_000

	MinArgon2Iterations  = 1
	MaxArgon2Iterations  = 64
	MinArgon2Memory      = 19 * 1024   // KiB, OWASP minimum for t=2
	MaxArgon2Memory      = 2048 * 1024 // KiB
	MinArgon2Parallelism = 1
	MaxArgon2Parallelism = 16
)

// KDFConfig describes how to turn a password into key bytes. It is a closed
// set of variants ([PBKDF2], [Argon2id]); the unexported method keeps other
// packages from adding half-populated configs.
type KDFConfig interface {
	// Type returns the algorithm tag.
	Type() KDFType
	// Params returns the non-secret cost parameters without the salt.
	Params() KDFParams
	// SaltBytes returns the salt.
	SaltBytes() []byte
	// Validate checks the salt length and cost bounds.
	Validate() error

	derive(password []byte, keyLen uint32) []byte
}

// PBKDF2 is PBKDF2-HMAC-SHA256.
type PBKDF2 struct {
	Iterations int
	Salt       []byte
}

func (p PBKDF2) Type() KDFType     { return KDFTypePBKDF2 }
func (p PBKDF2) SaltBytes() []byte { return p.Salt }

func (p PBKDF2) Params() KDFParams {
	return KDFParams{Type: KDFTypePBKDF2, Iterations: p.Iterations}
}

func (p PBKDF2) Validate() error {
	if len(p.Salt) != SaltSize {
		return ErrInvalidSalt
	}
	if p.Iterations < MinPBKDF2Iterations || p.Iterations > MaxPBKDF2Iterations {
		return fmt.Errorf("%w: pbkdf2 iterations %d", ErrInvalidIterations, p.Iterations)
	}
	return nil
}

func (p PBKDF2) derive(password []byte, keyLen uint32) []byte {
	return pbkdf2.Key(password, p.Salt, p.Iterations, int(keyLen), sha256.New)
}

// Argon2id is the memory-hard Argon2id function. Memory is in KiB.
type Argon2id struct {
	Iterations  uint32
	Memory      uint32
	Parallelism uint8
	Salt        []byte
}

func (a Argon2id) Type() KDFType     { return KDFTypeArgon2id }
func (a Argon2id) SaltBytes() []byte { return a.Salt }

func (a Argon2id) Params() KDFParams {
	return KDFParams{
		Type:        KDFTypeArgon2id,
		Iterations:  int(a.Iterations),
		Memory:      int(a.Memory),
		Parallelism: int(a.Parallelism),
	}
}

func (a Argon2id) Validate() error {
	if len(a.Salt) != SaltSize {
		return ErrInvalidSalt
	}
	if a.Iterations < MinArgon2Iterations || a.Iterations > MaxArgon2Iterations {
		return fmt.Errorf("%w: argon2id iterations %d", ErrInvalidIterations, a.Iterations)
	}
	if a.Memory < MinArgon2Memory || a.Memory > MaxArgon2Memory {
		return fmt.Errorf("%w: argon2id memory %d KiB", ErrInvalidMemory, a.Memory)
	}
	if a.Parallelism < MinArgon2Parallelism || a.Parallelism > MaxArgon2Parallelism {
		return fmt.Errorf("%w: argon2id parallelism %d", ErrInvalidParallelism, a.Parallelism)
	}
	return nil
}

func (a Argon2id) derive(password []byte, keyLen uint32) []byte {
	return argon2.IDKey(password, a.Salt, a.Iterations, a.Memory, a.Parallelism, keyLen)
}

// KDFParams is the salt-less template a [KDFConfig] is built from. It is
// what the application config and container metadata carry.
type KDFParams struct {
	Type        KDFType
	Iterations  int
	Memory      int // KiB, Argon2id only
	Parallelism int // Argon2id only
}

// DefaultMasterKDFParams returns the Argon2id parameters recommended by
// OWASP (2024): 1 iteration, 64 MiB, 4 lanes.
func DefaultMasterKDFParams() KDFParams {
	return KDFParams{
		Type:        KDFTypeArgon2id,
		Iterations:  1,
		Memory:      64 * 1024,
		Parallelism: 4,
	}
}

// DefaultExportKDFParams returns PBKDF2-SHA256 with 600 000 iterations, the
// OWASP figure for PBKDF2-HMAC-SHA256.
func DefaultExportKDFParams() KDFParams {
	return KDFParams{Type: KDFTypePBKDF2, Iterations: 600_000}
}

// WithSalt builds and validates a [KDFConfig] from p and salt.
func (p KDFParams) WithSalt(salt []byte) (KDFConfig, error) {
	var cfg KDFConfig
	switch p.Type {
	case KDFTypePBKDF2:
		if p.Memory != 0 || p.Parallelism != 0 {
			return nil, ErrIncompleteKDFConfig
		}
		cfg = PBKDF2{Iterations: p.Iterations, Salt: salt}
	case KDFTypeArgon2id:
		if p.Memory <= 0 || p.Parallelism <= 0 || p.Iterations <= 0 {
			return nil, ErrIncompleteKDFConfig
		}
		if p.Iterations > MaxArgon2Iterations || p.Memory > MaxArgon2Memory || p.Parallelism > MaxArgon2Parallelism {
			return nil, fmt.Errorf("%w: argon2id parameters exceed limits", ErrConfig)
		}
		cfg = Argon2id{
			Iterations:  uint32(p.Iterations),
			Memory:      uint32(p.Memory),
			Parallelism: uint8(p.Parallelism),
			Salt:        salt,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKDF, p.Type)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfig builds a [KDFConfig] from p with a fresh random salt.
func (p KDFParams) NewConfig() (KDFConfig, error) {
	salt, err := NewSalt()
	if err != nil {
		return nil, err
	}
	return p.WithSalt(salt)
}

// NewSalt reads [SaltSize] random bytes from the OS CSPRNG. The salt is not
// secret; it makes equal passwords derive different keys.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// KDFConfigFromRecord parses the KDF fields of a persisted security record.
// Unknown types, partially-populated parameters and bad salts are all
// reported as [ErrConfig].
func KDFConfigFromRecord(rec models.SecurityRecord) (KDFConfig, error) {
	salt, err := base64.StdEncoding.DecodeString(rec.KDFSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: decode kdf salt: %v", ErrConfig, err)
	}

	params := KDFParams{Type: KDFType(rec.KDFType), Iterations: rec.KDFIterations}
	switch params.Type {
	case KDFTypePBKDF2:
		if rec.KDFMemory != nil || rec.KDFParallelism != nil {
			return nil, ErrIncompleteKDFConfig
		}
	case KDFTypeArgon2id:
		if rec.KDFMemory == nil || rec.KDFParallelism == nil {
			return nil, ErrIncompleteKDFConfig
		}
		params.Memory = *rec.KDFMemory
		params.Parallelism = *rec.KDFParallelism
	}

	return params.WithSalt(salt)
}

// ApplyKDFConfig writes cfg into the KDF fields of rec.
func ApplyKDFConfig(rec *models.SecurityRecord, cfg KDFConfig) {
	p := cfg.Params()
	rec.KDFType = string(p.Type)
	rec.KDFIterations = p.Iterations
	rec.KDFMemory = nil
	rec.KDFParallelism = nil
	if p.Type == KDFTypeArgon2id {
		memory, parallelism := p.Memory, p.Parallelism
		rec.KDFMemory = &memory
		rec.KDFParallelism = &parallelism
	}
	rec.KDFSalt = base64.StdEncoding.EncodeToString(cfg.SaltBytes())
}
