// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-pass-vault/internal/container"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/generator"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// engine limits before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of
// the ErrInvalid*Configs sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAppConfigs, err)
		}
	}

	zeroSalt := make([]byte, crypto.SaltSize)
	if _, err := cfg.KDF.Params().WithSalt(zeroSalt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKDFConfigs, err)
	}

	if _, err := crypto.NewCipher(crypto.Algorithm(cfg.Crypto.Cipher)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCryptoConfigs, err)
	}

	if _, err := cfg.Export.KDF.Params().WithSalt(zeroSalt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExportConfigs, err)
	}
	if _, err := container.ParseEncoding(cfg.Export.Encoding); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExportConfigs, err)
	}

	if cfg.Generator.Length < generator.MinLength || cfg.Generator.Length > generator.MaxLength ||
		cfg.Generator.Words < generator.MinWords || cfg.Generator.Words > generator.MaxWords {
		return ErrInvalidGeneratorConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
