package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

var batchSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"expiry":       true,
	"quantity":     true,
}

// FindByIDForTenant finds a batch by ID within a tenant
func (r *GormBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAllForTenant finds all batches for a tenant
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	query := r.db.WithContext(ctx).Model(&inventory.Batch{}).Where("tenant_id = ?", tenantID)
	if err := applyFilter(query, filter, batchSortFields).Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByProduct finds all batches of a product
func (r *GormBatchRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByProductAndNumber finds a batch by its number within a product
func (r *GormBatchRepository) FindByProductAndNumber(ctx context.Context, tenantID, productID uuid.UUID, batchNumber string) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND batch_number = ?", tenantID, productID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindExpiringBy finds stocked batches whose MM/YY expiry falls on or before
// the cutoff month. Expiry is stored as text, so the comparison rewrites it to
// YYMM for lexicographic ordering.
func (r *GormBatchRepository) FindExpiringBy(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]inventory.Batch, error) {
	cutoffKey := fmt.Sprintf("%02d%02d", cutoff.Year()%100, int(cutoff.Month()))
	var batches []inventory.Batch
	query := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("tenant_id = ? AND quantity > 0 AND expiry <> ''", tenantID).
		Where("substr(expiry, 4, 2) || substr(expiry, 1, 2) <= ?", cutoffKey).
		Order("substr(expiry, 4, 2) || substr(expiry, 1, 2) ASC")
	if err := applyPagination(query, filter).Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SumQuantityByProduct sums batch quantities for a product
func (r *GormBatchRepository) SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// DeleteForTenant deletes a batch within a tenant
func (r *GormBatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Batch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts batches for a tenant
func (r *GormBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
