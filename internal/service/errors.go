package service

import "errors"

var (
	// ErrNoRecordStore is returned by OpenSession when the engine was built
	// without a security-record repository.
	ErrNoRecordStore = errors.New("no security record store configured")

	// ErrInvalidEntry wraps the validators error of an entry that fails
	// validation before sealing or opening.
	ErrInvalidEntry = errors.New("invalid vault entry")
)
