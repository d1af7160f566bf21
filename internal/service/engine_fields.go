package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/session"
	"github.com/MKhiriev/go-pass-vault/models"
)

// EncryptField seals plaintext under the vault key of s and returns the
// base64 container stored in the entry field.
func (e *Engine) EncryptField(s *session.Session, plaintext []byte) (string, error) {
	var blob string
	err := s.WithVaultKey(func(key []byte) error {
		var err error
		blob, err = e.codec.SealString(key, plaintext)
		return err
	})
	return blob, err
}

// DecryptField reverses [Engine.EncryptField].
func (e *Engine) DecryptField(s *session.Session, blob string) ([]byte, error) {
	var plaintext []byte
	err := s.WithVaultKey(func(key []byte) error {
		var err error
		plaintext, err = e.codec.OpenString(key, blob)
		return err
	})
	return plaintext, err
}

// EncryptEntry validates entry and converts it to its at-rest form. Fields whose role is
// secret, or that are marked secret, are sealed; the rest are copied. A
// missing ID or timestamp is filled in.
func (e *Engine) EncryptEntry(s *session.Session, entry models.VaultEntry) (models.EncryptedEntry, error) {
	if err := e.validator.Validate(context.Background(), entry); err != nil {
		return models.EncryptedEntry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	now := e.now().UTC()
	out := models.EncryptedEntry{
		ID:        entry.ID,
		Name:      entry.Name,
		Fields:    make([]models.EncryptedField, len(entry.Fields)),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if out.ID == "" {
		out.ID = e.ids.Generate()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	if out.UpdatedAt.IsZero() {
		// a CreatedAt ahead of the local clock must not yield UpdatedAt < CreatedAt
		out.UpdatedAt = now
		if out.CreatedAt.After(now) {
			out.UpdatedAt = out.CreatedAt
		}
	}

	err := s.WithVaultKey(func(key []byte) error {
		for i, f := range entry.Fields {
			out.Fields[i] = models.EncryptedField{Name: f.Name, Role: f.Role, Value: f.Value}
			if !f.Encrypted() {
				continue
			}

			blob, err := e.codec.SealString(key, []byte(f.Value))
			if err != nil {
				return fmt.Errorf("encrypt field %q: %w", f.Name, err)
			}
			out.Fields[i].Value = blob
			out.Fields[i].Encrypted = true
		}
		return nil
	})
	if err != nil {
		return models.EncryptedEntry{}, err
	}

	return out, nil
}

// DecryptEntry reverses [Engine.EncryptEntry]. Any field that fails to
// open fails the whole entry.
func (e *Engine) DecryptEntry(s *session.Session, entry models.EncryptedEntry) (models.VaultEntry, error) {
	if err := e.validator.Validate(context.Background(), entry); err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	out := models.VaultEntry{
		ID:        entry.ID,
		Name:      entry.Name,
		Fields:    make([]models.Field, len(entry.Fields)),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	err := s.WithVaultKey(func(key []byte) error {
		for i, f := range entry.Fields {
			out.Fields[i] = models.Field{
				Name:   f.Name,
				Role:   f.Role,
				Value:  f.Value,
				Secret: f.Encrypted && f.Role != models.RoleSecret,
			}
			if !f.Encrypted {
				continue
			}

			plaintext, err := e.codec.OpenString(key, f.Value)
			if err != nil {
				return fmt.Errorf("decrypt field %q: %w", f.Name, err)
			}
			out.Fields[i].Value = string(plaintext)
		}
		return nil
	})
	if err != nil {
		return models.VaultEntry{}, err
	}

	return out, nil
}
