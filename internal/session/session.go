// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the vault state machine for one identity: whether
// encryption is set up, whether the vault is unlocked, and the vault key
// while it is.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

// CommitFunc persists a new or re-wrapped security record. A transition
// that produced a record only takes effect if its CommitFunc returns nil.
type CommitFunc func(ctx context.Context, rec models.SecurityRecord) error

// Session is the vault state machine of one identity.
//
// The record and the key slot are guarded by mu: transitions take the
// write lock, key users take the read lock. Key derivation always runs
// outside the lock.
type Session struct {
	identity string
	keyChain crypto.KeyChainService
	logger   *logger.Logger
	throttle *throttle
	now      func() time.Time

	mu     sync.RWMutex
	record *models.SecurityRecord
	key    *memguard.Enclave

	lastActivity atomic.Int64
}

// Option configures a [Session].
type Option func(*Session)

// WithThrottle enables unlock backoff; see [throttle].
func WithThrottle(base, max time.Duration) Option {
	return func(s *Session) {
		s.throttle = newThrottle(base, max)
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.logger = l.WithIdentity(s.identity)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New returns a session for identity. A nil record starts it in
// EncryptionNotSetUp, otherwise in VaultLocked.
func New(identity string, record *models.SecurityRecord, keyChain crypto.KeyChainService, opts ...Option) *Session {
	s := &Session{
		identity: identity,
		keyChain: keyChain,
		logger:   logger.Nop(),
		throttle: newThrottle(0, 0),
		now:      time.Now,
	}
	if record != nil {
		rec := *record
		s.record = &rec
	}
	for _, opt := range opts {
		opt(s)
	}
	s.touch()
	return s
}

// Identity returns the owner identity.
func (s *Session) Identity() string {
	return s.identity
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.record == nil:
		return EncryptionNotSetUp
	case s.key == nil:
		return VaultLocked
	default:
		return VaultUnlocked
	}
}

// Record returns a copy of the current security record.
func (s *Session) Record() (models.SecurityRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return models.SecurityRecord{}, false
	}
	return *s.record, true
}

// Setup creates the security record, hands it to commit and, once commit
// succeeds, moves to VaultUnlocked holding the new vault key. On any
// failure the session is left in EncryptionNotSetUp.
func (s *Session) Setup(ctx context.Context, password string, commit CommitFunc) (models.SecurityRecord, error) {
	if s.State() != EncryptionNotSetUp {
		return models.SecurityRecord{}, ErrAlreadySetUp
	}

	rec, vaultKey, err := s.keyChain.Setup(ctx, password)
	if err != nil {
		s.logger.Err(err).Str("func", "*Session.Setup").Msg("failed to create security record")
		return models.SecurityRecord{}, err
	}
	rec.Identity = s.identity

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record != nil {
		crypto.Wipe(vaultKey)
		return models.SecurityRecord{}, ErrAlreadySetUp
	}

	if commit != nil {
		if err := commit(ctx, rec); err != nil {
			crypto.Wipe(vaultKey)
			s.logger.Err(err).Str("func", "*Session.Setup").Msg("failed to commit security record")
			return models.SecurityRecord{}, fmt.Errorf("commit security record: %w", err)
		}
	}

	s.record = &rec
	s.key = memguard.NewEnclave(vaultKey)
	s.touch()

	s.logger.Info().Str("func", "*Session.Setup").Str("state", VaultUnlocked.String()).Msg("encryption set up")
	return rec, nil
}

// Unlock recovers the vault key with password. Concurrent unlocks are
// allowed; whichever finishes last installs its key. A failure leaves the
// state unchanged and counts towards the unlock throttle.
func (s *Session) Unlock(ctx context.Context, password string) error {
	rec, ok := s.Record()
	if !ok {
		return ErrNotSetUp
	}

	if err := s.throttle.allow(s.now()); err != nil {
		s.logger.Warn().Str("func", "*Session.Unlock").Msg("unlock throttled")
		return err
	}

	vaultKey, err := s.keyChain.Unlock(ctx, password, rec)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthentication) {
			s.throttle.fail(s.now())
		}
		s.logger.Err(err).Str("func", "*Session.Unlock").Msg("unlock failed")
		return err
	}
	s.throttle.reset()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = memguard.NewEnclave(vaultKey)
	s.touch()

	s.logger.Info().Str("func", "*Session.Unlock").Str("state", VaultUnlocked.String()).Msg("vault unlocked")
	return nil
}

// Lock drops the vault key. It waits for in-flight key users, after which
// every key use fails with [ErrVaultLocked]. Locking a locked or unset
// session is a no-op.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lockLocked()
}

func (s *Session) lockLocked() {
	if s.key == nil {
		return
	}
	s.key = nil
	s.logger.Info().Str("func", "*Session.Lock").Str("state", VaultLocked.String()).Msg("vault locked")
}

// LockIfIdle locks the vault when no key use happened for at least
// timeout. It reports whether it locked.
func (s *Session) LockIfIdle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil || timeout <= 0 {
		return false
	}
	if s.now().Sub(time.Unix(0, s.lastActivity.Load())) < timeout {
		return false
	}

	s.lockLocked()
	return true
}

// ChangePassword re-wraps the vault key under newPassword and commits the
// new record. The vault key itself does not change, so data encrypted
// before stays readable. A locked session stays locked.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string, commit CommitFunc) (models.SecurityRecord, error) {
	rec, ok := s.Record()
	if !ok {
		return models.SecurityRecord{}, ErrNotSetUp
	}

	if err := s.throttle.allow(s.now()); err != nil {
		return models.SecurityRecord{}, err
	}

	next, vaultKey, err := s.keyChain.Rewrap(ctx, oldPassword, newPassword, rec)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthentication) {
			s.throttle.fail(s.now())
		}
		s.logger.Err(err).Str("func", "*Session.ChangePassword").Msg("failed to rewrap vault key")
		return models.SecurityRecord{}, err
	}
	s.throttle.reset()
	next.Identity = s.identity

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil || s.record.WrappedUserKey != rec.WrappedUserKey {
		crypto.Wipe(vaultKey)
		return models.SecurityRecord{}, ErrRecordChanged
	}

	if commit != nil {
		if err := commit(ctx, next); err != nil {
			crypto.Wipe(vaultKey)
			s.logger.Err(err).Str("func", "*Session.ChangePassword").Msg("failed to commit security record")
			return models.SecurityRecord{}, fmt.Errorf("commit security record: %w", err)
		}
	}

	s.record = &next
	if s.key != nil {
		s.key = memguard.NewEnclave(vaultKey)
		s.touch()
	} else {
		crypto.Wipe(vaultKey)
	}

	s.logger.Info().Str("func", "*Session.ChangePassword").Msg("master password changed")
	return next, nil
}

// WithVaultKey runs fn with the vault key. The key slice is only valid
// inside fn and is destroyed when fn returns. Lock blocks until fn is done.
func (s *Session) WithVaultKey(fn func(key []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.stateLocked() {
	case EncryptionNotSetUp:
		return ErrNotSetUp
	case VaultLocked:
		return ErrVaultLocked
	}

	buf, err := s.key.Open()
	if err != nil {
		return fmt.Errorf("open vault key: %w", err)
	}
	defer buf.Destroy()

	s.touch()
	return fn(buf.Bytes())
}

// LastActivity returns the time of the last unlock or key use.
func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

func (s *Session) touch() {
	s.lastActivity.Store(s.now().UnixNano())
}
