package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntryID      = errors.New("invalid entry id")
	ErrEmptyEntryName      = errors.New("entry name is required")
	ErrInvalidRole         = errors.New("invalid field role")
	ErrEmptyFieldName      = errors.New("field name is required")
	ErrUnencryptedSecret   = errors.New("secret field is not encrypted")
	ErrEmptyEncryptedValue = errors.New("encrypted field has no value")
	ErrInvalidTimestamps   = errors.New("entry updated before it was created")
)
