package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// GormReturnRepository implements trade.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

var returnSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"return_number": true,
	"return_date":   true,
	"grand_total":   true,
}

// FindByIDForTenant finds a return with its items by ID within a tenant
func (r *GormReturnRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAllForTenant finds all returns for a tenant
func (r *GormReturnRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Return, error) {
	var returns []trade.Return
	query := r.db.WithContext(ctx).Model(&trade.Return{}).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	if err := applyFilter(query, filter, returnSortFields).Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindByInvoice finds all returns raised against an invoice
func (r *GormReturnRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]trade.Return, error) {
	var returns []trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at ASC").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// CountByInvoice counts returns raised against an invoice
func (r *GormReturnRepository) CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&trade.Return{}).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the return document and its items
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(ret).Error
}

// DeleteForTenant deletes a return and its items within a tenant
func (r *GormReturnRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	result := db.Delete(&trade.Return{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Delete(&trade.ReturnItem{}, "return_id = ?", id).Error
}

// CountForTenant counts returns for a tenant
func (r *GormReturnRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&trade.Return{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ trade.ReturnRepository = (*GormReturnRepository)(nil)
