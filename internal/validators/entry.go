package validators

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Field names accepted by [EntryValidator.Validate].
const (
	// FieldID requires a non-empty ID to be a UUID. Empty IDs pass; they
	// are assigned on encryption.
	FieldID = "id"

	// FieldName requires a non-empty entry name.
	FieldName = "name"

	// FieldRoles requires every field role to be known.
	FieldRoles = "roles"

	// FieldFieldNames requires every field to have a name.
	FieldFieldNames = "field_names"

	// FieldSecrets requires, for at-rest entries, that secret-role fields
	// are encrypted and encrypted fields carry a value.
	FieldSecrets = "secrets"

	// FieldTimestamps requires UpdatedAt not to precede CreatedAt when
	// both are set.
	FieldTimestamps = "timestamps"
)

// EntryValidator implements [Validator] for models.VaultEntry and
// models.EncryptedEntry, by value or pointer.
type EntryValidator struct{}

// NewEntryValidator returns an EntryValidator as a [Validator].
func NewEntryValidator() Validator {
	return &EntryValidator{}
}

// Validate dispatches on the type of obj. The default rule set is
// FieldID, FieldRoles and FieldTimestamps for both types, plus FieldSecrets
// for encrypted entries.
func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultEntry:
		return v.validateEntry(ctx, value, fields...)
	case *models.VaultEntry:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateEntry(ctx, *value, fields...)
	case models.EncryptedEntry:
		return v.validateEncryptedEntry(ctx, value, fields...)
	case *models.EncryptedEntry:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateEncryptedEntry(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateEntry(_ context.Context, entry models.VaultEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldRoles, FieldTimestamps}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if err := validateID(entry.ID); err != nil {
				return err
			}
		case FieldName:
			if entry.Name == "" {
				return ErrEmptyEntryName
			}
		case FieldRoles:
			for _, field := range entry.Fields {
				if !field.Role.Valid() {
					return fmt.Errorf("%w: field %q has role %d", ErrInvalidRole, field.Name, field.Role)
				}
			}
		case FieldFieldNames:
			for i, field := range entry.Fields {
				if field.Name == "" {
					return fmt.Errorf("%w: at index %d", ErrEmptyFieldName, i)
				}
			}
		case FieldTimestamps:
			if !entry.CreatedAt.IsZero() && !entry.UpdatedAt.IsZero() && entry.UpdatedAt.Before(entry.CreatedAt) {
				return ErrInvalidTimestamps
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateEncryptedEntry(_ context.Context, entry models.EncryptedEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldRoles, FieldSecrets, FieldTimestamps}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if err := validateID(entry.ID); err != nil {
				return err
			}
		case FieldName:
			if entry.Name == "" {
				return ErrEmptyEntryName
			}
		case FieldRoles:
			for _, field := range entry.Fields {
				if !field.Role.Valid() {
					return fmt.Errorf("%w: field %q has role %d", ErrInvalidRole, field.Name, field.Role)
				}
			}
		case FieldFieldNames:
			for i, field := range entry.Fields {
				if field.Name == "" {
					return fmt.Errorf("%w: at index %d", ErrEmptyFieldName, i)
				}
			}
		case FieldSecrets:
			for _, field := range entry.Fields {
				if field.Role == models.RoleSecret && !field.Encrypted {
					return fmt.Errorf("%w: %q", ErrUnencryptedSecret, field.Name)
				}
				if field.Encrypted && field.Value == "" {
					return fmt.Errorf("%w: %q", ErrEmptyEncryptedValue, field.Name)
				}
			}
		case FieldTimestamps:
			if !entry.CreatedAt.IsZero() && !entry.UpdatedAt.IsZero() && entry.UpdatedAt.Before(entry.CreatedAt) {
				return ErrInvalidTimestamps
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateID(id string) error {
	if id == "" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntryID, id)
	}
	return nil
}
