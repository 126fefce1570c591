package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/shared"
)

// GormAccountRepository implements billing.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

var accountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"balance":    true,
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Account, error) {
	var account billing.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAllForTenant finds all accounts for a tenant
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Account, error) {
	var accounts []billing.Account
	query := r.db.WithContext(ctx).Model(&billing.Account{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter, accountSortFields).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *billing.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// DeleteForTenant deletes an account within a tenant
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Account{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts accounts for a tenant
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Account{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.AccountRepository = (*GormAccountRepository)(nil)

// GormAccountTransactionRepository implements the append-only account
// movement log using GORM
type GormAccountTransactionRepository struct {
	db *gorm.DB
}

// NewGormAccountTransactionRepository creates a new GormAccountTransactionRepository
func NewGormAccountTransactionRepository(db *gorm.DB) *GormAccountTransactionRepository {
	return &GormAccountTransactionRepository{db: db}
}

// Append writes one account movement record
func (r *GormAccountTransactionRepository) Append(ctx context.Context, tx *billing.AccountTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByAccount lists movements for an account, newest first
func (r *GormAccountTransactionRepository) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]billing.AccountTransaction, error) {
	var transactions []billing.AccountTransaction
	query := r.db.WithContext(ctx).Model(&billing.AccountTransaction{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Order("created_at DESC")
	if err := applyPagination(query, filter).Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

var _ billing.AccountTransactionRepository = (*GormAccountTransactionRepository)(nil)
