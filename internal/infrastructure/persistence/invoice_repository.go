package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM.
// Line items are loaded eagerly; the engine always works on whole documents.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var invoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"grand_total":    true,
}

// FindByIDForTenant finds an invoice with its items by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Invoice, error) {
	var invoice trade.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its human-facing number within a tenant,
// type and fiscal year.
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceType trade.InvoiceType, fiscalYear, invoiceNumber string) (*trade.Invoice, error) {
	var invoice trade.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND type = ? AND fiscal_year = ? AND invoice_number = ?",
			tenantID, invoiceType, fiscalYear, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds all invoices for a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Invoice, error) {
	var invoices []trade.Invoice
	query := r.db.WithContext(ctx).Model(&trade.Invoice{}).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	if err := applyFilter(query, filter, invoiceSortFields).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByType finds invoices of one type for a tenant
func (r *GormInvoiceRepository) FindByType(ctx context.Context, tenantID uuid.UUID, invoiceType trade.InvoiceType, filter shared.Filter) ([]trade.Invoice, error) {
	var invoices []trade.Invoice
	query := r.db.WithContext(ctx).Model(&trade.Invoice{}).
		Preload("Items").
		Where("tenant_id = ? AND type = ?", tenantID, invoiceType)
	if filter.Search != "" {
		query = query.Where("invoice_number LIKE ? OR party_name LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter, invoiceSortFields).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByParty finds invoices for a party
func (r *GormInvoiceRepository) FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]trade.Invoice, error) {
	var invoices []trade.Invoice
	query := r.db.WithContext(ctx).Model(&trade.Invoice{}).
		Preload("Items").
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID)
	if err := applyFilter(query, filter, invoiceSortFields).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save persists the invoice document and its current line set. Replaced lines
// are removed so the stored set always mirrors the aggregate.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *trade.Invoice) error {
	db := r.db.WithContext(ctx)
	keep := make([]uuid.UUID, 0, len(invoice.Items))
	for i := range invoice.Items {
		keep = append(keep, invoice.Items[i].ID)
	}
	query := db.Where("invoice_id = ?", invoice.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&trade.InvoiceItem{}).Error; err != nil {
		return err
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
}

// DeleteForTenant deletes an invoice and its items within a tenant
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	result := db.Delete(&trade.Invoice{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Delete(&trade.InvoiceItem{}, "invoice_id = ?", id).Error
}

// CountForTenant counts invoices for a tenant
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&trade.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
