package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

var paymentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"amount":     true,
	"status":     true,
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := r.db.WithContext(ctx).
		Preload("Settlements").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForTenant finds all payments for a tenant
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	var payments []billing.Payment
	query := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Preload("Settlements").
		Where("tenant_id = ?", tenantID)
	if err := applyFilter(query, filter, paymentSortFields).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByParty lists payments made to or by one party
func (r *GormPaymentRepository) FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	var payments []billing.Payment
	query := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Preload("Settlements").
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID)
	if err := applyFilter(query, filter, paymentSortFields).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByInvoice lists payments linked to one invoice or return
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var payments []billing.Payment
	if err := r.db.WithContext(ctx).
		Preload("Settlements").
		Where("tenant_id = ? AND invoice_id = ?", tenantID, invoiceID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountSettlementsByInvoice counts bill settlements referencing an invoice.
// Settlements carry no tenant column of their own, so the count joins through
// the owning payment.
func (r *GormPaymentRepository) CountSettlementsByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.BillSettlement{}).
		Joins("JOIN payments ON payments.id = bill_settlements.payment_id").
		Where("payments.tenant_id = ? AND bill_settlements.invoice_id = ?", tenantID, invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment with its settlements
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(payment).Error
}

// DeleteForTenant deletes a payment and its settlements within a tenant
func (r *GormPaymentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", id).
		Delete(&billing.BillSettlement{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&billing.Payment{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts payments for a tenant
func (r *GormPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Payment{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
