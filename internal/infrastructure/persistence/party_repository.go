package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormPartyRepository implements partner.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

var partySortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"current_balance": true,
}

// FindByIDForTenant finds a party by ID within a tenant
func (r *GormPartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Party, error) {
	var party partner.Party
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&party).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

// FindAllForTenant finds all parties for a tenant
func (r *GormPartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Party, error) {
	var parties []partner.Party
	query := r.db.WithContext(ctx).Model(&partner.Party{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter, partySortFields).Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// FindByType finds parties of one type for a tenant
func (r *GormPartyRepository) FindByType(ctx context.Context, tenantID uuid.UUID, partyType partner.PartyType, filter shared.Filter) ([]partner.Party, error) {
	var parties []partner.Party
	query := r.db.WithContext(ctx).Model(&partner.Party{}).
		Where("tenant_id = ? AND type = ?", tenantID, partyType)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter, partySortFields).Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

// DeleteForTenant deletes a party within a tenant
func (r *GormPartyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Party{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts parties for a tenant
func (r *GormPartyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&partner.Party{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ partner.PartyRepository = (*GormPartyRepository)(nil)

// GormLedgerRepository implements the append-only party ledger using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append writes one ledger record
func (r *GormLedgerRepository) Append(ctx context.Context, entry *partner.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByParty lists ledger records for a party, newest first
func (r *GormLedgerRepository) FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]partner.LedgerEntry, error) {
	var entries []partner.LedgerEntry
	query := r.db.WithContext(ctx).Model(&partner.LedgerEntry{}).
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID).
		Order("created_at DESC")
	if err := applyPagination(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumDeltaByParty sums debit minus credit across a party's ledger. Used to
// reconcile the running balance against the entry history.
func (r *GormLedgerRepository) SumDeltaByParty(ctx context.Context, tenantID, partyID uuid.UUID) (decimal.Decimal, error) {
	var raw struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&partner.LedgerEntry{}).
		Where("tenant_id = ? AND party_id = ?", tenantID, partyID).
		Select("COALESCE(SUM(debit - credit), 0) AS total").
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	return raw.Total, nil
}

var _ partner.LedgerRepository = (*GormLedgerRepository)(nil)
