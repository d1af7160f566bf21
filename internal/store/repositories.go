package store

import "github.com/MKhiriev/go-pass-vault/internal/logger"

type Repositories struct {
	SecurityRecords SecurityRecordRepository
}

func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		SecurityRecords: NewSecurityRecordRepository(db, log),
	}
}
