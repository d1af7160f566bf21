// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service exposes the engine API: one [Engine] per process, built
// from the configuration, driving per-identity vault sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/container"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/generator"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/session"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/internal/workers"
	"github.com/MKhiriev/go-pass-vault/models"
)

// Engine holds the process-wide crypto services. It carries no per-user
// state; keys live in the [session.Session] values it hands out.
type Engine struct {
	keyChain  crypto.KeyChainService
	codec     *container.Codec
	encoding  container.Encoding
	generator *generator.Generator
	records   store.SecurityRecordRepository
	validator validators.Validator
	ids       *utils.UUIDGenerator
	now       func() time.Time

	generatorDefaults config.Generator
	session           config.Session

	logger *logger.Logger
}

// NewEngine builds an Engine from cfg. records may be nil, in which case
// setup and password changes are not persisted and OpenSession is
// unavailable.
func NewEngine(cfg *config.StructuredConfig, records store.SecurityRecordRepository, log *logger.Logger) (*Engine, error) {
	deriver := crypto.NewKeyDeriver()

	keyChain, err := crypto.NewKeyChainService(deriver, cfg.KDF.Params())
	if err != nil {
		return nil, fmt.Errorf("build key chain: %w", err)
	}

	codec, err := container.NewCodec(crypto.Algorithm(cfg.Crypto.Cipher), deriver, cfg.Export.KDF.Params(), cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("build container codec: %w", err)
	}

	encoding, err := container.ParseEncoding(cfg.Export.Encoding)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("func", "NewEngine").
		Str("kdf", cfg.KDF.Type).
		Str("cipher", cfg.Crypto.Cipher).
		Str("export_encoding", encoding.String()).
		Msg("engine created")

	return &Engine{
		keyChain:          keyChain,
		codec:             codec,
		encoding:          encoding,
		generator:         generator.New(),
		records:           records,
		validator:         validators.NewEntryValidator(),
		ids:               utils.NewUUIDGenerator(),
		now:               time.Now,
		generatorDefaults: cfg.Generator,
		session:           cfg.Session,
		logger:            log,
	}, nil
}

// ── Sessions ──────────────────────────────────────────────────────────────────

// NewSession returns a session for identity over record (nil when
// encryption is not set up yet), configured with the engine's throttle.
func (e *Engine) NewSession(identity string, record *models.SecurityRecord) *session.Session {
	return session.New(identity, record, e.keyChain,
		session.WithLogger(e.logger),
		session.WithThrottle(e.session.UnlockBackoff, e.session.UnlockBackoffMax),
	)
}

// OpenSession loads the record of identity from the repository and returns
// a session in VaultLocked, or in EncryptionNotSetUp when there is none.
func (e *Engine) OpenSession(ctx context.Context, identity string) (*session.Session, error) {
	if e.records == nil {
		return nil, ErrNoRecordStore
	}

	rec, err := e.records.Find(ctx, identity)
	if errors.Is(err, store.ErrRecordNotFound) {
		return e.NewSession(identity, nil), nil
	}
	if err != nil {
		e.logger.Err(err).Str("func", "*Engine.OpenSession").Msg("failed to load security record")
		return nil, fmt.Errorf("load security record: %w", err)
	}

	return e.NewSession(identity, &rec), nil
}

// SetupEncryption creates the security record for s and persists it. On
// success the vault is unlocked.
func (e *Engine) SetupEncryption(ctx context.Context, s *session.Session, password string) (models.SecurityRecord, error) {
	return s.Setup(ctx, password, e.commitCreate)
}

// UnlockVault unlocks s with the master password.
func (e *Engine) UnlockVault(ctx context.Context, s *session.Session, password string) error {
	return s.Unlock(ctx, password)
}

// LockVault locks s.
func (e *Engine) LockVault(s *session.Session) {
	s.Lock()
}

// ChangeMasterPassword re-wraps the vault key of s and persists the new
// record. Existing ciphertexts stay valid.
func (e *Engine) ChangeMasterPassword(ctx context.Context, s *session.Session, oldPassword, newPassword string) (models.SecurityRecord, error) {
	return s.ChangePassword(ctx, oldPassword, newPassword, e.commitUpdate)
}

// AutoLocker returns an idle auto-lock worker for s using the configured
// timeout. It is not started.
func (e *Engine) AutoLocker(s *session.Session) *workers.AutoLocker {
	return workers.NewAutoLocker(s, e.session.AutoLock, 0, e.logger.WithIdentity(s.Identity()))
}

// StartAutoLock starts a worker that locks s after the configured idle
// time. The caller stops it with Stop; it also ends with ctx.
func (e *Engine) StartAutoLock(ctx context.Context, s *session.Session) *workers.AutoLocker {
	locker := e.AutoLocker(s)
	locker.Run(ctx)
	return locker
}

func (e *Engine) commitCreate(ctx context.Context, rec models.SecurityRecord) error {
	if e.records == nil {
		return nil
	}
	return mapStoreError(e.records.Create(ctx, rec))
}

func (e *Engine) commitUpdate(ctx context.Context, rec models.SecurityRecord) error {
	if e.records == nil {
		return nil
	}
	return mapStoreError(e.records.Update(ctx, rec))
}
