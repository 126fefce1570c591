package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/shared"
)

// CreatePartyCommand registers a customer or distributor. A non-zero opening
// balance becomes the party's first ledger entry.
type CreatePartyCommand struct {
	ActorID        uuid.UUID
	Name           string
	Type           partner.PartyType
	Phone          string
	Email          string
	Address        string
	GSTIN          string
	CreditDays     int
	OpeningBalance decimal.Decimal
}

// UpdatePartyCommand edits a party's contact details. Balances are never
// touched here.
type UpdatePartyCommand struct {
	PartyID    uuid.UUID
	Name       string
	Phone      string
	Email      string
	Address    string
	GSTIN      string
	CreditDays int
}

// PartyResponse is the API representation of a party
type PartyResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Type           partner.PartyType `json:"type"`
	Phone          string            `json:"phone,omitempty"`
	Email          string            `json:"email,omitempty"`
	Address        string            `json:"address,omitempty"`
	GSTIN          string            `json:"gstin,omitempty"`
	CreditDays     int               `json:"credit_days"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	CurrentBalance decimal.Decimal   `json:"current_balance"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ToPartyResponse maps a party aggregate to its API representation
func ToPartyResponse(p *partner.Party) PartyResponse {
	return PartyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		GSTIN:          p.GSTIN,
		CreditDays:     p.CreditDays,
		OpeningBalance: p.OpeningBalance,
		CurrentBalance: p.CurrentBalance,
		CreatedAt:      p.CreatedAt,
	}
}

// Service manages parties and exposes their ledgers. Party balances are only
// ever moved by invoice, return and payment operations.
type Service struct {
	scope apptrade.TransactionScope
}

// NewService creates a new partner Service
func NewService(scope apptrade.TransactionScope) *Service {
	return &Service{scope: scope}
}

// Create registers a party. A non-zero opening balance is recorded as the
// first ledger movement so the ledger always reconciles to the balance.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, cmd CreatePartyCommand) (*PartyResponse, error) {
	var response PartyResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		party, err := partner.NewParty(tenantID, cmd.Name, cmd.Type, cmd.OpeningBalance)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			party.SetCreatedBy(cmd.ActorID)
		}
		party.Phone = cmd.Phone
		party.Email = cmd.Email
		party.Address = cmd.Address
		party.GSTIN = cmd.GSTIN
		party.CreditDays = cmd.CreditDays

		if err := repos.Parties().Save(ctx, party); err != nil {
			return err
		}

		if !cmd.OpeningBalance.IsZero() {
			entry, err := partner.NewLedgerEntry(tenantID, party.ID, cmd.OpeningBalance,
				party.CurrentBalance, "Opening balance", nil, "")
			if err != nil {
				return err
			}
			if err := repos.PartyLedger().Append(ctx, entry); err != nil {
				return err
			}
		}

		response = ToPartyResponse(party)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update edits a party's contact details
func (s *Service) Update(ctx context.Context, tenantID uuid.UUID, cmd UpdatePartyCommand) (*PartyResponse, error) {
	if cmd.Name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party name is required")
	}

	var response PartyResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, cmd.PartyID)
		if err != nil {
			return err
		}
		party.Name = cmd.Name
		party.Phone = cmd.Phone
		party.Email = cmd.Email
		party.Address = cmd.Address
		party.GSTIN = cmd.GSTIN
		party.CreditDays = cmd.CreditDays
		party.UpdatedAt = time.Now()
		party.IncrementVersion()

		if err := repos.Parties().Save(ctx, party); err != nil {
			return err
		}
		response = ToPartyResponse(party)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a party by ID
func (s *Service) GetByID(ctx context.Context, tenantID, partyID uuid.UUID) (*PartyResponse, error) {
	var response PartyResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, partyID)
		if err != nil {
			return err
		}
		response = ToPartyResponse(party)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByType retrieves parties of one type with pagination
func (s *Service) ListByType(ctx context.Context, tenantID uuid.UUID, partyType partner.PartyType, filter shared.Filter) ([]PartyResponse, error) {
	var responses []PartyResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		parties, err := repos.Parties().FindByType(ctx, tenantID, partyType, filter)
		if err != nil {
			return err
		}
		responses = make([]PartyResponse, 0, len(parties))
		for i := range parties {
			responses = append(responses, ToPartyResponse(&parties[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// Ledger retrieves a party's ledger entries
func (s *Service) Ledger(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]partner.LedgerEntry, error) {
	var entries []partner.LedgerEntry
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if _, err := repos.Parties().FindByIDForTenant(ctx, tenantID, partyID); err != nil {
			return err
		}
		var err error
		entries, err = repos.PartyLedger().FindByParty(ctx, tenantID, partyID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
