package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/container"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/session"
	"github.com/MKhiriev/go-pass-vault/models"
)

// ExportContainer encrypts plaintext under a key derived from password and
// encodes the result in the configured export encoding.
func (e *Engine) ExportContainer(ctx context.Context, password string, plaintext []byte) ([]byte, error) {
	f, err := e.codec.SealWithPassword(ctx, password, plaintext)
	if err != nil {
		return nil, err
	}
	return container.Encode(f, e.encoding)
}

// ImportContainer decodes data (JSON or CBOR, detected) and decrypts it
// with password. A wrong password yields crypto.ErrIncorrectPassword.
func (e *Engine) ImportContainer(ctx context.Context, password string, data []byte) ([]byte, error) {
	f, err := container.Decode(data)
	if err != nil {
		return nil, err
	}
	return e.codec.OpenWithPassword(ctx, password, f)
}

// ExportEntries decrypts entries with the vault key of s and exports them
// as one password-protected file, independent of the account.
func (e *Engine) ExportEntries(ctx context.Context, s *session.Session, password string, entries []models.EncryptedEntry) ([]byte, error) {
	plain := make([]models.VaultEntry, 0, len(entries))
	for _, entry := range entries {
		dec, err := e.DecryptEntry(s, entry)
		if err != nil {
			return nil, fmt.Errorf("export entry %s: %w", entry.ID, err)
		}
		plain = append(plain, dec)
	}

	payload, err := json.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}
	defer crypto.Wipe(payload)

	return e.ExportContainer(ctx, password, payload)
}

// ImportEntries opens an export file and re-encrypts its entries under the
// vault key of s.
func (e *Engine) ImportEntries(ctx context.Context, s *session.Session, password string, data []byte) ([]models.EncryptedEntry, error) {
	payload, err := e.ImportContainer(ctx, password, data)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(payload)

	var plain []models.VaultEntry
	if err := json.Unmarshal(payload, &plain); err != nil {
		return nil, fmt.Errorf("%w: entries: %v", container.ErrMalformedContainer, err)
	}

	out := make([]models.EncryptedEntry, 0, len(plain))
	for _, entry := range plain {
		enc, err := e.EncryptEntry(s, entry)
		if err != nil {
			return nil, fmt.Errorf("import entry %s: %w", entry.ID, err)
		}
		out = append(out, enc)
	}
	return out, nil
}
