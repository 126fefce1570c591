package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormSequenceAllocator implements sequence.Allocator with a single atomic
// upsert. The increment happens inside the ON CONFLICT clause, so two
// transactions allocating from the same series serialize on the row lock and
// can never observe the same value. Works on PostgreSQL and SQLite >= 3.35.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

const allocateSQL = `INSERT INTO sequence_counters (id, tenant_id, kind, fiscal_year, value, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT (tenant_id, kind, fiscal_year)
DO UPDATE SET value = sequence_counters.value + 1, updated_at = ?
RETURNING value`

// Next allocates the next number in the (tenant, kind, fiscal year) series
func (a *GormSequenceAllocator) Next(ctx context.Context, tenantID uuid.UUID, kind sequence.DocumentKind, fiscalYear string) (int64, error) {
	if !kind.IsValid() {
		return 0, shared.ErrValidation
	}
	now := time.Now()
	var value int64
	err := a.db.WithContext(ctx).
		Raw(allocateSQL, uuid.New(), tenantID, string(kind), fiscalYear, now, now, now).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

var _ sequence.Allocator = (*GormSequenceAllocator)(nil)
