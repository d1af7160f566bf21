// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/MKhiriev/go-pass-vault/models"
)

// HKDF labels separating the two sub-keys expanded from the master key, and
// the associated data bound to the wrapped vault key.
const (
	wrapKeyInfo  = "go-pass-vault/v1/vault-key-wrap"
	authHashInfo = "go-pass-vault/v1/master-password-hash"
	vaultKeyAAD  = "go-pass-vault/v1/vault-key"
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	deriver KeyDeriver
	cipher  Cipher
	params  KDFParams
	now     func() time.Time
}

// NewKeyChainService constructs a [KeyChainService]. params is the template
// for every new KDF config (setup and password change); existing records
// keep the parameters they were wrapped with. The vault key is always
// wrapped with AES-256-GCM so records do not depend on the field cipher.
func NewKeyChainService(deriver KeyDeriver, params KDFParams) (KeyChainService, error) {
	if _, err := params.WithSalt(make([]byte, SaltSize)); err != nil {
		return nil, fmt.Errorf("invalid master kdf parameters: %w", err)
	}

	wrapCipher, err := NewCipher(AlgorithmAES256GCM)
	if err != nil {
		return nil, err
	}

	return &keyChainService{
		deriver: deriver,
		cipher:  wrapCipher,
		params:  params,
		now:     time.Now,
	}, nil
}

// GenerateVaultKey implements [KeyChainService]. It reads [KeySize] random
// bytes from the OS CSPRNG.
func (k *keyChainService) GenerateVaultKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate vault key: %w", err)
	}
	return key, nil
}

// Setup implements [KeyChainService].
//
//	Salt     = random(16)
//	Master   = KDF(password, Salt)
//	WrapKey  = HKDF-Expand(Master, "vault-key-wrap")
//	AuthHash = HKDF-Expand(Master, "master-password-hash")
//	Wrapped  = nonce ‖ AEAD(WrapKey, VaultKey)
//
// The returned record has no Identity; the caller owns that field.
func (k *keyChainService) Setup(ctx context.Context, password string) (models.SecurityRecord, []byte, error) {
	vaultKey, err := k.GenerateVaultKey()
	if err != nil {
		return models.SecurityRecord{}, nil, err
	}

	now := k.now().UTC()
	rec, err := k.wrap(ctx, password, vaultKey, now)
	if err != nil {
		Wipe(vaultKey)
		return models.SecurityRecord{}, nil, err
	}
	rec.CreatedAt = now

	return rec, vaultKey, nil
}

// Unlock implements [KeyChainService]. A record whose KDF fields cannot be
// parsed yields [ErrConfig]; any failure to open the wrapped key yields
// [ErrIncorrectPassword] and nothing else.
func (k *keyChainService) Unlock(ctx context.Context, password string, rec models.SecurityRecord) ([]byte, error) {
	cfg, err := KDFConfigFromRecord(rec)
	if err != nil {
		return nil, err
	}

	master, err := k.deriver.DeriveKeyContext(ctx, password, cfg)
	if err != nil {
		return nil, err
	}
	defer Wipe(master)

	wrapKey, _, err := splitMasterKey(master)
	if err != nil {
		return nil, err
	}
	defer Wipe(wrapKey)

	blob, err := base64.StdEncoding.DecodeString(rec.WrappedUserKey)
	if err != nil || len(blob) < NonceSize {
		return nil, ErrIncorrectPassword
	}

	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]
	vaultKey, err := k.cipher.Decrypt(wrapKey, nonce, ciphertext, []byte(vaultKeyAAD))
	if err != nil || len(vaultKey) != KeySize {
		Wipe(vaultKey)
		return nil, ErrIncorrectPassword
	}

	return vaultKey, nil
}

// Rewrap implements [KeyChainService]. The vault key recovered with
// oldPassword is wrapped again under a fresh salt and the current default
// parameters, so existing ciphertexts stay valid. Identity and CreatedAt are
// carried over from rec.
func (k *keyChainService) Rewrap(ctx context.Context, oldPassword, newPassword string, rec models.SecurityRecord) (models.SecurityRecord, []byte, error) {
	vaultKey, err := k.Unlock(ctx, oldPassword, rec)
	if err != nil {
		return models.SecurityRecord{}, nil, err
	}

	next, err := k.wrap(ctx, newPassword, vaultKey, k.now().UTC())
	if err != nil {
		Wipe(vaultKey)
		return models.SecurityRecord{}, nil, err
	}
	next.Identity = rec.Identity
	next.CreatedAt = rec.CreatedAt

	return next, vaultKey, nil
}

// wrap derives a new master key for password under a fresh salt and seals
// vaultKey with it. Nothing is returned unless every step succeeded.
func (k *keyChainService) wrap(ctx context.Context, password string, vaultKey []byte, now time.Time) (models.SecurityRecord, error) {
	cfg, err := k.params.NewConfig()
	if err != nil {
		return models.SecurityRecord{}, err
	}

	master, err := k.deriver.DeriveKeyContext(ctx, password, cfg)
	if err != nil {
		return models.SecurityRecord{}, err
	}
	defer Wipe(master)

	wrapKey, authHash, err := splitMasterKey(master)
	if err != nil {
		return models.SecurityRecord{}, err
	}
	defer Wipe(wrapKey, authHash)

	nonce, ciphertext, err := k.cipher.Encrypt(wrapKey, vaultKey, []byte(vaultKeyAAD))
	if err != nil {
		return models.SecurityRecord{}, fmt.Errorf("wrap vault key: %w", err)
	}

	rec := models.SecurityRecord{
		MasterPasswordHash: base64.StdEncoding.EncodeToString(authHash),
		WrappedUserKey:     base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)),
		UpdatedAt:          now,
	}
	ApplyKDFConfig(&rec, cfg)

	return rec, nil
}

// splitMasterKey expands the master key into the wrapping key and the
// password verifier. Both come from HKDF-Expand with distinct labels, so
// the verifier reveals nothing about the wrapping key.
func splitMasterKey(master []byte) (wrapKey, authHash []byte, err error) {
	wrapKey = make([]byte, KeySize)
	if _, err = io.ReadFull(hkdf.Expand(sha256.New, master, []byte(wrapKeyInfo)), wrapKey); err != nil {
		return nil, nil, fmt.Errorf("expand wrap key: %w", err)
	}

	authHash = make([]byte, sha256.Size)
	if _, err = io.ReadFull(hkdf.Expand(sha256.New, master, []byte(authHashInfo)), authHash); err != nil {
		Wipe(wrapKey)
		return nil, nil, fmt.Errorf("expand auth hash: %w", err)
	}

	return wrapKey, authHash, nil
}
