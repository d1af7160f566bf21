package crypto

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyDeriver turns a password and a [KDFConfig] into key bytes.
// It cannot tell a right password from a wrong one; it fails only on a
// malformed config.
type KeyDeriver interface {
	// DeriveKey returns KeySize bytes. Deterministic for equal inputs.
	DeriveKey(password string, cfg KDFConfig) ([]byte, error)

	// DeriveKeyContext is DeriveKey run off the calling goroutine so the
	// caller can abandon a slow derivation through ctx.
	DeriveKeyContext(ctx context.Context, password string, cfg KDFConfig) ([]byte, error)
}

// Cipher is symmetric authenticated encryption under a 32-byte key.
type Cipher interface {
	// Encrypt seals plaintext with a fresh random nonce and returns the
	// nonce and the ciphertext (tag included).
	Encrypt(key, plaintext, aad []byte) (nonce, ciphertext []byte, err error)

	// Decrypt verifies and opens ciphertext. Every failure is ErrAuthFailed.
	Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error)

	// Algorithm returns the construction name.
	Algorithm() Algorithm
}

// KeyChainService owns the two-tier key hierarchy: a slow password-derived
// master key wraps a random vault key that protects the data.
//
// Scheme:
//
//	Master   = KDF(password, salt)
//	WrapKey  = HKDF(Master, "wrap"), AuthHash = HKDF(Master, "auth")
//	Wrapped  = AEAD(WrapKey, VaultKey)
//
// Master and WrapKey never leave this service; only the record and the
// vault key are returned.
type KeyChainService interface {
	// GenerateVaultKey returns a fresh random vault key.
	GenerateVaultKey() ([]byte, error)

	// Setup creates a new record for password and returns it together with
	// the new vault key.
	Setup(ctx context.Context, password string) (models.SecurityRecord, []byte, error)

	// Unlock recovers the vault key from rec. A wrong password returns
	// ErrIncorrectPassword.
	Unlock(ctx context.Context, password string, rec models.SecurityRecord) ([]byte, error)

	// Rewrap re-wraps the vault key of rec under newPassword.
	Rewrap(ctx context.Context, oldPassword, newPassword string, rec models.SecurityRecord) (models.SecurityRecord, []byte, error)
}
