// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm names an AEAD construction with a 256-bit key and a 96-bit nonce.
type Algorithm string

const (
	AlgorithmAES256GCM        Algorithm = "AES-256-GCM"
	AlgorithmChaCha20Poly1305 Algorithm = "CHACHA20-POLY1305"
)

// NonceSize is the nonce length of every supported algorithm.
const NonceSize = 12

// Wire identifiers used in container headers. Zero is never assigned.
var algorithmIDs = map[Algorithm]byte{
	AlgorithmAES256GCM:        1,
	AlgorithmChaCha20Poly1305: 2,
}

// ID returns the one-byte wire identifier of a.
func (a Algorithm) ID() (byte, error) {
	id, ok := algorithmIDs[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, a)
	}
	return id, nil
}

// AlgorithmFromID maps a wire identifier back to its [Algorithm].
func AlgorithmFromID(id byte) (Algorithm, error) {
	for alg, algID := range algorithmIDs {
		if algID == id {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: id %d", ErrUnsupportedAlgorithm, id)
}

// aeadCipher is the private implementation of [Cipher].
type aeadCipher struct {
	algorithm Algorithm
	newAEAD   func(key []byte) (cipher.AEAD, error)
}

// NewCipher returns the [Cipher] for alg.
func NewCipher(alg Algorithm) (Cipher, error) {
	switch alg {
	case AlgorithmAES256GCM:
		return &aeadCipher{algorithm: alg, newAEAD: newAESGCM}, nil
	case AlgorithmChaCha20Poly1305:
		return &aeadCipher{algorithm: alg, newAEAD: chacha20poly1305.New}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Algorithm implements [Cipher].
func (c *aeadCipher) Algorithm() Algorithm {
	return c.algorithm
}

// Encrypt implements [Cipher]. A fresh random nonce is read for every call
// and returned separately; the ciphertext carries the 16-byte tag.
func (c *aeadCipher) Encrypt(key, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != KeySize {
		return nil, nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, nil, fmt.Errorf("create aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return nonce, aead.Seal(nil, nonce, plaintext, aad), nil
}

// Decrypt implements [Cipher]. The tag is verified before any plaintext is
// released; every failure collapses into [ErrAuthFailed].
func (c *aeadCipher) Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("create aead: %w", err)
	}

	if len(nonce) != aead.NonceSize() || len(ciphertext) < aead.Overhead() {
		return nil, ErrAuthFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
