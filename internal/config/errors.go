package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown log level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidKDFConfigs indicates master KDF parameters outside the
	// accepted limits or an unknown KDF type.
	ErrInvalidKDFConfigs = errors.New("invalid kdf configuration")
	// ErrInvalidCryptoConfigs indicates an unknown cipher name.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidExportConfigs indicates invalid export KDF parameters or an
	// unknown encoding.
	ErrInvalidExportConfigs = errors.New("invalid export configuration")
	// ErrInvalidGeneratorConfigs indicates generator defaults outside the
	// generator limits.
	ErrInvalidGeneratorConfigs = errors.New("invalid generator configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
