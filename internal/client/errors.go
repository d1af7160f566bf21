package client

import (
	"errors"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/generator"
	"github.com/MKhiriev/go-pass-vault/internal/session"
)

var (
	ErrUsage            = errors.New("usage: vault [flags] <init|unlock|passwd|export|import|generate|strength|version> [args]")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyPassword    = errors.New("password must not be empty")
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUser     = 1
	ExitInternal = 2
)

// ExitCode maps err to the process exit status: [ExitUser] for errors the
// user can fix by retrying differently, [ExitInternal] for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrEmptyPassword),
		errors.Is(err, crypto.ErrAuthentication),
		errors.Is(err, crypto.ErrFormat),
		errors.Is(err, session.ErrAlreadySetUp),
		errors.Is(err, session.ErrNotSetUp),
		errors.Is(err, generator.ErrInvalidLength),
		errors.Is(err, generator.ErrInvalidWordCount),
		errors.Is(err, generator.ErrNoCharacterClasses):
		return ExitUser
	}
	return ExitInternal
}
