package models

import "time"

// SecurityRecord is the per-account record handed to the account store.
// Every field is either public (KDF parameters, salt) or already encrypted
// (WrappedUserKey), so the record can be persisted and transmitted as-is.
// It never carries the master password, the master key or the vault key.
type SecurityRecord struct {
	// Identity is the lookup key used by the account store (email or user ID).
	Identity string `json:"identity"`

	// MasterPasswordHash is a one-way verifier of the master password.
	// It is derived independently of the wrapping key and cannot be used
	// to recover the vault key.
	MasterPasswordHash string `json:"masterPasswordHash"`

	// KDFType is the key-derivation algorithm tag (e.g. "argon2id").
	KDFType string `json:"kdfType"`

	// KDFIterations is the iteration (time) cost of the KDF.
	KDFIterations int `json:"kdfIterations"`

	// KDFMemory is the memory cost in KiB. Nil for iteration-only KDFs.
	KDFMemory *int `json:"kdfMemory"`

	// KDFParallelism is the lane count. Nil for iteration-only KDFs.
	KDFParallelism *int `json:"kdfParallelism"`

	// KDFSalt is the base64-encoded per-user salt.
	KDFSalt string `json:"kdfSalt"`

	// WrappedUserKey is the base64-encoded vault key sealed under the
	// master-password-derived wrapping key (nonce || ciphertext).
	WrappedUserKey string `json:"wrappedUserKey"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table associated with
// SecurityRecord.
func (r SecurityRecord) TableName() string {
	return "security_records"
}
