package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormStockEntryRepository implements the append-only stock timeline using
// GORM. It deliberately exposes no update or delete operations.
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Append writes one timeline record
func (r *GormStockEntryRepository) Append(ctx context.Context, entry *inventory.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByProduct lists timeline records for a product, newest first
func (r *GormStockEntryRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	query := r.db.WithContext(ctx).Model(&inventory.StockEntry{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at DESC")
	if err := applyPagination(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByInvoice lists timeline records referencing an invoice
func (r *GormStockEntryRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]inventory.StockEntry, error) {
	var entries []inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LastForProduct returns the most recent timeline record for a product
func (r *GormStockEntryRepository) LastForProduct(ctx context.Context, tenantID, productID uuid.UUID) (*inventory.StockEntry, error) {
	var entry inventory.StockEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("created_at DESC").
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

var _ inventory.StockEntryRepository = (*GormStockEntryRepository)(nil)
