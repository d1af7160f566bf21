// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks vault entries before they are sealed, opened
// or imported.
//
// A Validator accepts an arbitrary value plus an optional list of field
// names. With no names, the default rule set of that type is applied.
package validators

import "context"

// Validator validates input, optionally restricted to specific named
// fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
