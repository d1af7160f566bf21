// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package container implements the encrypted wire formats of the vault: the
// short blobs that hold single entry fields under the vault key, and the
// password-protected export files.
package container

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

// Version1 is the only container version this build writes and reads.
const Version1 byte = 0x01

// headerSize is the version byte plus the algorithm byte.
const headerSize = 2

// tagSize is the authentication tag length of both supported AEADs.
const tagSize = 16

// Codec seals and opens containers. The zero value is not usable; build one
// with [NewCodec].
type Codec struct {
	cipher  crypto.Cipher
	ciphers map[crypto.Algorithm]crypto.Cipher

	deriver      crypto.KeyDeriver
	exportParams crypto.KDFParams
	application  string
}

// NewCodec returns a Codec that writes with alg and derives export keys with
// deriver under exportParams. application is stamped into export metadata.
// Blobs written with any supported algorithm can be opened regardless of alg.
func NewCodec(alg crypto.Algorithm, deriver crypto.KeyDeriver, exportParams crypto.KDFParams, application string) (*Codec, error) {
	if _, err := exportParams.WithSalt(make([]byte, crypto.SaltSize)); err != nil {
		return nil, fmt.Errorf("invalid export kdf parameters: %w", err)
	}

	ciphers := make(map[crypto.Algorithm]crypto.Cipher, 2)
	for _, a := range []crypto.Algorithm{crypto.AlgorithmAES256GCM, crypto.AlgorithmChaCha20Poly1305} {
		c, err := crypto.NewCipher(a)
		if err != nil {
			return nil, err
		}
		ciphers[a] = c
	}

	writer, ok := ciphers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", crypto.ErrUnsupportedAlgorithm, alg)
	}

	return &Codec{
		cipher:       writer,
		ciphers:      ciphers,
		deriver:      deriver,
		exportParams: exportParams,
		application:  application,
	}, nil
}

// Algorithm returns the cipher new containers are written with.
func (c *Codec) Algorithm() crypto.Algorithm {
	return c.cipher.Algorithm()
}

// SealWithKey encrypts plaintext under a vault key:
//
//	version(1) || algorithm(1) || nonce(12) || ciphertext+tag
//
// The two header bytes are authenticated as associated data.
func (c *Codec) SealWithKey(key, plaintext []byte) ([]byte, error) {
	algID, err := c.cipher.Algorithm().ID()
	if err != nil {
		return nil, err
	}
	header := []byte{Version1, algID}

	nonce, ciphertext, err := c.cipher.Encrypt(key, plaintext, header)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, headerSize+len(nonce)+len(ciphertext))
	blob = append(blob, header...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// OpenWithKey reverses [Codec.SealWithKey]. An unknown header yields an
// [crypto.ErrFormat] error; a failed tag check yields [ErrDecryptionFailed].
func (c *Codec) OpenWithKey(key, blob []byte) ([]byte, error) {
	if len(blob) < headerSize+crypto.NonceSize+tagSize {
		return nil, ErrMalformedContainer
	}
	if blob[0] != Version1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, blob[0])
	}

	alg, err := crypto.AlgorithmFromID(blob[1])
	if err != nil {
		return nil, err
	}
	cipher := c.ciphers[alg]

	header := blob[:headerSize]
	nonce := blob[headerSize : headerSize+crypto.NonceSize]
	ciphertext := blob[headerSize+crypto.NonceSize:]

	plaintext, err := cipher.Decrypt(key, nonce, ciphertext, header)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthFailed) {
			return nil, ErrDecryptionFailed
		}
		return nil, err
	}
	return plaintext, nil
}

// SealString is [Codec.SealWithKey] with standard base64 output, the form
// stored in entry fields.
func (c *Codec) SealString(key, plaintext []byte) (string, error) {
	blob, err := c.SealWithKey(key, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// OpenString reverses [Codec.SealString].
func (c *Codec) OpenString(key []byte, blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	return c.OpenWithKey(key, raw)
}
