package crypto

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer of the engine. Callers match with
// [errors.Is]; the more specific errors below wrap one of these three.
var (
	// ErrConfig reports malformed KDF parameters or a corrupted security
	// record. It is fatal for the record and must not be retried.
	ErrConfig = errors.New("vault data appears corrupted")

	// ErrAuthentication reports a wrong master or export password, or a
	// ciphertext that failed authentication. It is recoverable by the user.
	ErrAuthentication = errors.New("authentication failed")

	// ErrFormat reports a container whose version or algorithm is not
	// recognized. It is fatal for that container.
	ErrFormat = errors.New("unrecognized container format")
)

// KDF configuration errors.
var (
	ErrInvalidSalt         = fmt.Errorf("%w: salt must be %d bytes", ErrConfig, SaltSize)
	ErrInvalidIterations   = fmt.Errorf("%w: iteration count out of range", ErrConfig)
	ErrInvalidMemory       = fmt.Errorf("%w: memory cost out of range", ErrConfig)
	ErrInvalidParallelism  = fmt.Errorf("%w: parallelism out of range", ErrConfig)
	ErrUnsupportedKDF      = fmt.Errorf("%w: unsupported key derivation function", ErrConfig)
	ErrIncompleteKDFConfig = fmt.Errorf("%w: kdf parameters do not match kdf type", ErrConfig)
	ErrMissingKDFConfig    = fmt.Errorf("%w: no kdf configuration", ErrConfig)
)

// ErrIncorrectPassword is the only error returned for a failed unlock. It
// does not distinguish a wrong password from a damaged wrapped key.
var ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrAuthentication)

// Cipher-level errors.
var (
	// ErrAuthFailed is returned by [Cipher.Decrypt] for every failure:
	// tag mismatch, wrong key, wrong nonce length or truncated input.
	ErrAuthFailed = errors.New("message authentication failed")

	// ErrInvalidKeyLength is returned when a key is not [KeySize] bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrUnsupportedAlgorithm is returned for an unknown cipher name or id.
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported cipher algorithm", ErrFormat)
)
