package session

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

var (
	// ErrVaultLocked is returned by any key use outside VaultUnlocked.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrNotSetUp is returned when an operation needs a security record and
	// the identity has none yet.
	ErrNotSetUp = errors.New("encryption is not set up")

	// ErrAlreadySetUp is returned by Setup once a record exists.
	ErrAlreadySetUp = errors.New("encryption is already set up")

	// ErrRecordChanged is returned by ChangePassword when another password
	// change committed first.
	ErrRecordChanged = errors.New("security record changed concurrently")

	// ErrUnlockThrottled is returned when an unlock is attempted before the
	// backoff after previous failures has elapsed. It is an authentication
	// error: the user retries later.
	ErrUnlockThrottled = fmt.Errorf("%w: too many failed attempts", crypto.ErrAuthentication)
)
