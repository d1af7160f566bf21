// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-pass-vault/internal/session"
	"github.com/MKhiriev/go-pass-vault/internal/store"
)

// mapStoreError translates a repository error into the session error the
// engine's callers already handle.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrRecordAlreadyExists):
		return session.ErrAlreadySetUp
	case errors.Is(err, store.ErrRecordNotFound):
		return session.ErrNotSetUp
	}

	return err
}
