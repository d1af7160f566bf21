package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name       string
		err        error
		want       ErrorClassification
		wantUnique bool
	}{
		{"nil", nil, NonRetryable, false},
		{"plain error", errors.New("boom"), NonRetryable, false},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), Retryable, false},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), Retryable, false},
		{"wrapped serialization failure", fmt.Errorf("tx: %w", pgError(pgerrcode.SerializationFailure)), Retryable, false},
		{"unique violation", pgError(pgerrcode.UniqueViolation), NonRetryable, true},
		{"check violation", pgError(pgerrcode.CheckViolation), NonRetryable, false},
		{"cannot connect now", pgError(pgerrcode.CannotConnectNow), Retryable, false},
		{"admin shutdown", pgError(pgerrcode.AdminShutdown), NonRetryable, false},
		{"syntax error", pgError(pgerrcode.SyntaxError), NonRetryable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.wantUnique, c.IsUniqueViolation(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name       string
		err        error
		want       ErrorClassification
		wantUnique bool
	}{
		{"plain error", errors.New("boom"), NonRetryable, false},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, Retryable, false},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, Retryable, false},
		{"unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, NonRetryable, true},
		{"primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, NonRetryable, true},
		{"check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, NonRetryable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.wantUnique, c.IsUniqueViolation(tt.err))
		})
	}
}
