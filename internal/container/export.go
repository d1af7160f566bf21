package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

const (
	// FileVersion is the export metadata version this build writes.
	FileVersion = 1

	// AlgorithmAEAD256 is the algorithm family name recorded in export
	// metadata; the concrete construction is in Metadata.Cipher.
	AlgorithmAEAD256 = "AEAD-256"

	exportAAD = "go-pass-vault/v1/export"

	// importCostFactor bounds the KDF work an imported file may request,
	// relative to the local export parameters.
	importCostFactor = 4
)

// Metadata travels next to an export body. It describes how the body was
// produced and is treated as untrusted input on import.
type Metadata struct {
	Version       int       `json:"version"`
	Algorithm     string    `json:"algorithm"`
	Cipher        string    `json:"cipher,omitempty"`
	KeyDerivation string    `json:"keyDerivation"`
	Iterations    int       `json:"iterations"`
	Memory        *int      `json:"memory,omitempty"`
	Parallelism   *int      `json:"parallelism,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Application   string    `json:"application"`
}

// File is a password-protected export: metadata plus the raw body
// salt(16) || nonce(12) || ciphertext+tag.
type File struct {
	Metadata Metadata
	Body     []byte
}

// SealWithPassword encrypts plaintext for export. A fresh salt is drawn and
// the key derived from password encrypts the payload directly; there is no
// vault key involved, so the file can be opened without an account.
func (c *Codec) SealWithPassword(ctx context.Context, password string, plaintext []byte) (File, error) {
	cfg, err := c.exportParams.NewConfig()
	if err != nil {
		return File{}, err
	}

	key, err := c.deriver.DeriveKeyContext(ctx, password, cfg)
	if err != nil {
		return File{}, err
	}
	defer crypto.Wipe(key)

	nonce, ciphertext, err := c.cipher.Encrypt(key, plaintext, []byte(exportAAD))
	if err != nil {
		return File{}, err
	}

	salt := cfg.SaltBytes()
	body := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	body = append(body, salt...)
	body = append(body, nonce...)
	body = append(body, ciphertext...)

	return File{
		Metadata: c.metadataFor(cfg.Params()),
		Body:     body,
	}, nil
}

// OpenWithPassword decrypts an export file. The metadata only selects the
// cipher and KDF parameters; a wrong password and a tampered body both
// yield [crypto.ErrIncorrectPassword].
func (c *Codec) OpenWithPassword(ctx context.Context, password string, f File) ([]byte, error) {
	cipher, params, err := c.parseMetadata(f.Metadata)
	if err != nil {
		return nil, err
	}

	if len(f.Body) < crypto.SaltSize+crypto.NonceSize+tagSize {
		return nil, ErrMalformedContainer
	}
	salt := f.Body[:crypto.SaltSize]
	nonce := f.Body[crypto.SaltSize : crypto.SaltSize+crypto.NonceSize]
	ciphertext := f.Body[crypto.SaltSize+crypto.NonceSize:]

	cfg, err := params.WithSalt(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	key, err := c.deriver.DeriveKeyContext(ctx, password, cfg)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	plaintext, err := cipher.Decrypt(key, nonce, ciphertext, []byte(exportAAD))
	if err != nil {
		if errors.Is(err, crypto.ErrAuthFailed) {
			return nil, crypto.ErrIncorrectPassword
		}
		return nil, err
	}
	return plaintext, nil
}

func (c *Codec) metadataFor(p crypto.KDFParams) Metadata {
	m := Metadata{
		Version:       FileVersion,
		Algorithm:     AlgorithmAEAD256,
		Cipher:        string(c.cipher.Algorithm()),
		KeyDerivation: string(p.Type),
		Iterations:    p.Iterations,
		CreatedAt:     time.Now().UTC(),
		Application:   c.application,
	}
	if p.Type == crypto.KDFTypeArgon2id {
		memory, parallelism := p.Memory, p.Parallelism
		m.Memory = &memory
		m.Parallelism = &parallelism
	}
	return m
}

// parseMetadata maps untrusted metadata onto a cipher and KDF template.
// Anything unrecognized is a format error, never a config error: the file
// came from outside and says nothing about the local vault.
func (c *Codec) parseMetadata(m Metadata) (crypto.Cipher, crypto.KDFParams, error) {
	if m.Version != FileVersion {
		return nil, crypto.KDFParams{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	if m.Algorithm != AlgorithmAEAD256 {
		return nil, crypto.KDFParams{}, fmt.Errorf("%w: %q", crypto.ErrUnsupportedAlgorithm, m.Algorithm)
	}

	alg := crypto.Algorithm(m.Cipher)
	if alg == "" {
		alg = crypto.AlgorithmAES256GCM
	}
	cipher, ok := c.ciphers[alg]
	if !ok {
		return nil, crypto.KDFParams{}, fmt.Errorf("%w: %q", crypto.ErrUnsupportedAlgorithm, m.Cipher)
	}

	params := crypto.KDFParams{
		Type:       crypto.KDFType(m.KeyDerivation),
		Iterations: m.Iterations,
	}
	switch params.Type {
	case crypto.KDFTypePBKDF2:
		if m.Memory != nil || m.Parallelism != nil {
			return nil, crypto.KDFParams{}, fmt.Errorf("%w: pbkdf2 with memory parameters", ErrInvalidMetadata)
		}
	case crypto.KDFTypeArgon2id:
		if m.Memory == nil || m.Parallelism == nil {
			return nil, crypto.KDFParams{}, fmt.Errorf("%w: argon2id without memory parameters", ErrInvalidMetadata)
		}
		params.Memory = *m.Memory
		params.Parallelism = *m.Parallelism
	default:
		return nil, crypto.KDFParams{}, fmt.Errorf("%w: key derivation %q", ErrInvalidMetadata, m.KeyDerivation)
	}

	if err := c.checkImportCost(params); err != nil {
		return nil, crypto.KDFParams{}, err
	}

	return cipher, params, nil
}

// checkImportCost rejects files asking for more than importCostFactor times
// the work of this codec's own export parameters, or of the built-in
// defaults when the file uses the other KDF. It runs before any key
// derivation.
func (c *Codec) checkImportCost(p crypto.KDFParams) error {
	base := c.exportParams
	if base.Type != p.Type {
		switch p.Type {
		case crypto.KDFTypeArgon2id:
			base = crypto.DefaultMasterKDFParams()
		default:
			base = crypto.DefaultExportKDFParams()
		}
	}

	if kdfCost(p) > importCostFactor*kdfCost(base) {
		return fmt.Errorf("%w: %s cost above import limit", ErrInvalidMetadata, p.Type)
	}
	return nil
}

// kdfCost is iterations for PBKDF2 and iterations × KiB for Argon2id.
func kdfCost(p crypto.KDFParams) int64 {
	if p.Type == crypto.KDFTypeArgon2id {
		return int64(p.Iterations) * int64(p.Memory)
	}
	return int64(p.Iterations)
}
