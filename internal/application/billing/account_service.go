package billing

import (
	"context"

	"github.com/google/uuid"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/shared"
)

// AccountService manages financial accounts. Balances are only ever moved by
// the payment paths; this service owns creation and reads.
type AccountService struct {
	scope apptrade.TransactionScope
}

// NewAccountService creates a new AccountService
func NewAccountService(scope apptrade.TransactionScope) *AccountService {
	return &AccountService{scope: scope}
}

// Create opens a financial account with an opening balance
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, cmd CreateAccountCommand) (*AccountResponse, error) {
	var response AccountResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		account, err := billing.NewAccount(tenantID, cmd.Name, cmd.Type, cmd.OpeningBalance)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			account.SetCreatedBy(cmd.ActorID)
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		response = ToAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves an account by ID
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	var response AccountResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		response = ToAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves all accounts for a tenant
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountResponse, error) {
	var responses []AccountResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		accounts, err := repos.Accounts().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		responses = make([]AccountResponse, 0, len(accounts))
		for i := range accounts {
			responses = append(responses, ToAccountResponse(&accounts[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// Transactions retrieves the movement log for an account
func (s *AccountService) Transactions(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]billing.AccountTransaction, error) {
	var transactions []billing.AccountTransaction
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		var err error
		transactions, err = repos.AccountTransactions().FindByAccount(ctx, tenantID, accountID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
