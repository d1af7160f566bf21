// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

const securityRecordsTable = "security_records"

var securityRecordColumns = []string{
	"identity",
	"master_password_hash",
	"kdf_type",
	"kdf_iterations",
	"kdf_memory",
	"kdf_parallelism",
	"kdf_salt",
	"wrapped_user_key",
	"created_at",
	"updated_at",
}

// retryBaseDelay and retryAttempts bound the retries of transient driver
// errors (busy SQLite file, dropped PostgreSQL connection).
const (
	retryBaseDelay = 50 * time.Millisecond
	retryAttempts  = 3
)

// securityRecordRepository is the SQL implementation of
// [SecurityRecordRepository]. Statements are built with squirrel in the
// placeholder style of the connected dialect.
type securityRecordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSecurityRecordRepository constructs a [SecurityRecordRepository] backed
// by db.
func NewSecurityRecordRepository(db *DB, logger *logger.Logger) SecurityRecordRepository {
	logger.Debug().Msg("creating security record repository")
	return &securityRecordRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts rec.
//
// Error handling:
//   - unique or primary key violation → [ErrRecordAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *securityRecordRepository) Create(ctx context.Context, rec models.SecurityRecord) error {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := r.db.builder.
		Insert(securityRecordsTable).
		Columns(securityRecordColumns...).
		Values(
			rec.Identity,
			rec.MasterPasswordHash,
			rec.KDFType,
			rec.KDFIterations,
			nullInt(rec.KDFMemory),
			nullInt(rec.KDFParallelism),
			rec.KDFSalt,
			rec.WrappedUserKey,
			rec.CreatedAt.UTC(),
			rec.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*securityRecordRepository.Create").Msg("error inserting security record")
		if r.db.errorClassificator.IsUniqueViolation(err) {
			return ErrRecordAlreadyExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Find loads the record of identity. No row → [ErrRecordNotFound]; a
// failed query → [ErrExecutingQuery]; a row of the wrong shape →
// [ErrScanningRow].
func (r *securityRecordRepository) Find(ctx context.Context, identity string) (models.SecurityRecord, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := r.db.builder.
		Select(securityRecordColumns...).
		From(securityRecordsTable).
		Where(sq.Eq{"identity": identity}).
		ToSql()
	if err != nil {
		return models.SecurityRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		rec         models.SecurityRecord
		memory      sql.NullInt64
		parallelism sql.NullInt64
		found       bool
		scanErr     error
	)
	err = r.withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		found = rows.Next()
		if found {
			scanErr = rows.Scan(
				&rec.Identity,
				&rec.MasterPasswordHash,
				&rec.KDFType,
				&rec.KDFIterations,
				&memory,
				&parallelism,
				&rec.KDFSalt,
				&rec.WrappedUserKey,
				&rec.CreatedAt,
				&rec.UpdatedAt,
			)
			if scanErr != nil {
				return nil
			}
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).Str("func", "*securityRecordRepository.Find").Msg("error querying security record")
		return models.SecurityRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if scanErr != nil {
		log.Err(scanErr).Str("func", "*securityRecordRepository.Find").Msg("error scanning security record")
		return models.SecurityRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}
	if !found {
		return models.SecurityRecord{}, ErrRecordNotFound
	}

	rec.KDFMemory = intPtr(memory)
	rec.KDFParallelism = intPtr(parallelism)

	return rec, nil
}

// Update overwrites every mutable column of the record with rec.Identity.
// Zero affected rows → [ErrRecordNotFound].
func (r *securityRecordRepository) Update(ctx context.Context, rec models.SecurityRecord) error {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := r.db.builder.
		Update(securityRecordsTable).
		Set("master_password_hash", rec.MasterPasswordHash).
		Set("kdf_type", rec.KDFType).
		Set("kdf_iterations", rec.KDFIterations).
		Set("kdf_memory", nullInt(rec.KDFMemory)).
		Set("kdf_parallelism", nullInt(rec.KDFParallelism)).
		Set("kdf_salt", rec.KDFSalt).
		Set("wrapped_user_key", rec.WrappedUserKey).
		Set("updated_at", rec.UpdatedAt.UTC()).
		Where(sq.Eq{"identity": rec.Identity}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execAffectingOne(ctx, log, "*securityRecordRepository.Update", query, args)
}

// Delete removes the record of identity. Zero affected rows →
// [ErrRecordNotFound].
func (r *securityRecordRepository) Delete(ctx context.Context, identity string) error {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := r.db.builder.
		Delete(securityRecordsTable).
		Where(sq.Eq{"identity": identity}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execAffectingOne(ctx, log, "*securityRecordRepository.Delete", query, args)
}

func (r *securityRecordRepository) execAffectingOne(ctx context.Context, log *logger.Logger, fn, query string, args []any) error {
	var affected int64
	err := r.withRetry(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// withRetry runs fn, repeating it with exponential backoff while the
// dialect classifies its error as [Retryable].
func (r *securityRecordRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryAttempts-1, retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && r.db.errorClassificator.Classify(err) == Retryable {
			r.logger.Warn().Err(err).Msg("retrying transient database error")
			return retry.RetryableError(err)
		}
		return err
	})
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
