package store

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SecurityRecordRepository persists one [models.SecurityRecord] per identity.
// Every stored field is public or already encrypted.
type SecurityRecordRepository interface {
	// Create stores a new record. An existing identity yields
	// ErrRecordAlreadyExists.
	Create(ctx context.Context, rec models.SecurityRecord) error
	// Find returns the record of identity or ErrRecordNotFound.
	Find(ctx context.Context, identity string) (models.SecurityRecord, error)
	// Update replaces the stored record with the same identity.
	Update(ctx context.Context, rec models.SecurityRecord) error
	// Delete removes the record of identity.
	Delete(ctx context.Context, identity string) error
}

// ErrorClassificator maps driver errors to retry decisions and domain
// conditions.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
