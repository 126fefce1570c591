package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/shared"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestIsConcurrencyAbort(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped serialization failure", fmt.Errorf("query: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConcurrencyAbort(tt.err))
		})
	}
}

func TestGormTransactionScope_Execute(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	t.Run("serialization failure surfaces as retryable abort", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			return fmt.Errorf("save invoice: %w", &pgconn.PgError{Code: "40001"})
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrTransactionAborted)
	})

	t.Run("domain errors pass through untouched", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			return shared.ErrInsufficientStock
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NotErrorIs(t, err, shared.ErrTransactionAborted)
	})

	t.Run("success commits without error", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			return nil
		})
		assert.NoError(t, err)
	})
}
