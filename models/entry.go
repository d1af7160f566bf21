package models

import "time"

// Field is a single named value of a decrypted vault entry.
type Field struct {
	// Name is the user-visible label. It carries no semantics.
	Name string `json:"name"`

	// Role is the language-independent meaning of the field.
	Role FieldRole `json:"role"`

	// Value is the plaintext value.
	Value string `json:"value"`

	// Secret marks non-secret-role fields that must still be encrypted
	// (e.g. a security question answer stored as RoleOther).
	Secret bool `json:"secret,omitempty"`
}

// Encrypted reports whether the field value is stored encrypted.
func (f Field) Encrypted() bool {
	return f.Secret || f.Role == RoleSecret
}

// VaultEntry is the decrypted, in-memory form of a stored entry used by
// the UI layer.
type VaultEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Fields    []Field   `json:"fields"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldByRole returns the first field with the given role.
func (e VaultEntry) FieldByRole(role FieldRole) (Field, bool) {
	for _, f := range e.Fields {
		if f.Role == role {
			return f, true
		}
	}
	return Field{}, false
}

// Username returns the value of the first RoleUsername field, if any.
func (e VaultEntry) Username() string {
	f, _ := e.FieldByRole(RoleUsername)
	return f.Value
}

// Password returns the value of the first RoleSecret field, if any.
func (e VaultEntry) Password() string {
	f, _ := e.FieldByRole(RoleSecret)
	return f.Value
}

// URL returns the value of the first RoleURL field, if any.
func (e VaultEntry) URL() string {
	f, _ := e.FieldByRole(RoleURL)
	return f.Value
}

// EncryptedField is the at-rest form of a Field. When Encrypted is true,
// Value holds a base64 vault-key container instead of the plaintext.
type EncryptedField struct {
	Name      string    `json:"name"`
	Role      FieldRole `json:"role"`
	Value     string    `json:"value"`
	Encrypted bool      `json:"encrypted"`
}

// EncryptedEntry is the at-rest form of a VaultEntry.
type EncryptedEntry struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Fields    []EncryptedField `json:"fields"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
