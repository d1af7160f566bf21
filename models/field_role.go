// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FieldRole tells the engine what a vault entry field means. It is chosen
// when the field is defined and never inferred from the field's display
// name, so entries behave the same regardless of the UI language.
type FieldRole int

const (
	// RoleOther is a free-form field with no special meaning.
	RoleOther FieldRole = iota

	// RoleUsername identifies the account (login, email, user ID).
	RoleUsername

	// RoleSecret holds a password or any other value that must be
	// encrypted at rest. Secret fields are always encrypted.
	RoleSecret

	// RoleURL holds a website or resource address.
	RoleURL

	// RoleNote holds free-form text attached to the entry.
	RoleNote
)

var fieldRoleNames = map[FieldRole]string{
	RoleOther:    "other",
	RoleUsername: "username",
	RoleSecret:   "secret",
	RoleURL:      "url",
	RoleNote:     "note",
}

// String returns the lowercase name of the role.
func (r FieldRole) String() string {
	if name, ok := fieldRoleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the declared roles.
func (r FieldRole) Valid() bool {
	_, ok := fieldRoleNames[r]
	return ok
}
