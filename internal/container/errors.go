package container

import (
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
)

// Format errors. All of them wrap [crypto.ErrFormat], so callers can match
// the whole class with errors.Is(err, crypto.ErrFormat).
var (
	// ErrUnsupportedVersion is returned when a blob or export file carries a
	// version this build does not know.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported container version", crypto.ErrFormat)

	// ErrMalformedContainer is returned for truncated blobs, bodies shorter
	// than salt+nonce+tag and undecodable base64.
	ErrMalformedContainer = fmt.Errorf("%w: malformed container", crypto.ErrFormat)

	// ErrInvalidMetadata is returned when the export metadata names a known
	// algorithm with parameters outside the accepted limits.
	ErrInvalidMetadata = fmt.Errorf("%w: invalid container metadata", crypto.ErrFormat)

	// ErrUnsupportedEncoding is returned when Decode recognizes neither the
	// JSON nor the CBOR document layout.
	ErrUnsupportedEncoding = fmt.Errorf("%w: unsupported container encoding", crypto.ErrFormat)
)

// ErrDecryptionFailed is returned by vault-key mode when the tag does not
// verify. The key being wrong and the blob being damaged look the same.
var ErrDecryptionFailed = fmt.Errorf("%w: container could not be decrypted", crypto.ErrAuthentication)
