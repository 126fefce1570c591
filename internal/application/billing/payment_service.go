package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// PaymentService records standalone payments and their account, party and
// bill-settlement effects. Each operation runs inside one transaction scope.
type PaymentService struct {
	scope apptrade.TransactionScope
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope apptrade.TransactionScope) *PaymentService {
	return &PaymentService{scope: scope}
}

// Create records a payment in or out. Completed payments shift the account
// balance; every payment shifts the party balance and appends a ledger entry.
// Linked bills are settled up to their balance due, allocations drawn from
// the payment amount.
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, cmd CreatePaymentCommand) (*PaymentResponse, error) {
	if !cmd.Amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}

	var response PaymentResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, cmd.PartyID)
		if err != nil {
			return err
		}

		fiscalYear := sequence.CurrentFiscalYear()
		n, err := repos.Sequences().Next(ctx, tenantID, sequence.KindPayment, fiscalYear)
		if err != nil {
			return err
		}
		payment, err := billing.NewPayment(tenantID, party.ID, cmd.AccountID,
			sequence.Format(sequence.KindPayment, fiscalYear, n), cmd.Amount, cmd.Method, cmd.Direction)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			payment.SetCreatedBy(cmd.ActorID)
		}
		payment.ChequeNumber = cmd.ChequeNumber
		payment.Remark = cmd.Remark

		if payment.Status == billing.PaymentStatusCompleted {
			if err := s.applyAccountEffect(ctx, tenantID, repos, payment, payment.AccountDelta(),
				fmt.Sprintf("Payment %s", payment.PaymentNumber)); err != nil {
				return err
			}
		}

		balance := party.ApplyBalanceDelta(payment.PartyDelta())
		if err := repos.Parties().Save(ctx, party); err != nil {
			return err
		}
		entry, err := partner.NewLedgerEntry(tenantID, party.ID, payment.PartyDelta(), balance,
			paymentDescription(payment), nil, payment.PaymentNumber)
		if err != nil {
			return err
		}
		if err := repos.PartyLedger().Append(ctx, entry); err != nil {
			return err
		}

		for _, alloc := range cmd.LinkedBills {
			if err := s.settleBill(ctx, tenantID, repos, payment, alloc); err != nil {
				return err
			}
		}

		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		response = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete reverses a payment: account balance restored, party balance
// restored, settled bills reopened, record removed.
func (s *PaymentService) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}

		if payment.Status == billing.PaymentStatusCompleted && payment.AccountID != nil {
			if err := s.applyAccountEffect(ctx, tenantID, repos, payment, payment.AccountDelta().Neg(),
				fmt.Sprintf("Payment %s deleted", payment.PaymentNumber)); err != nil {
				return err
			}
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, payment.PartyID)
		if err != nil {
			return err
		}
		delta := payment.PartyDelta().Neg()
		balance := party.ApplyBalanceDelta(delta)
		if err := repos.Parties().Save(ctx, party); err != nil {
			return err
		}
		entry, err := partner.NewLedgerEntry(tenantID, party.ID, delta, balance,
			fmt.Sprintf("Payment %s deleted", payment.PaymentNumber), nil, payment.PaymentNumber)
		if err != nil {
			return err
		}
		if err := repos.PartyLedger().Append(ctx, entry); err != nil {
			return err
		}

		for _, settlement := range payment.Settlements {
			inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, settlement.InvoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			if err := inv.RecordPayment(maxDecimal(inv.AmountPaid.Sub(settlement.Amount), decimal.Zero)); err != nil {
				return err
			}
			if err := repos.Invoices().Save(ctx, inv); err != nil {
				return err
			}
		}

		return repos.Payments().DeleteForTenant(ctx, tenantID, paymentID)
	})
}

// ClearCheque settles a pending cheque payment against an account, applying
// the account effect that was deferred at creation.
func (s *PaymentService) ClearCheque(ctx context.Context, tenantID, paymentID, accountID uuid.UUID) (*PaymentResponse, error) {
	var response PaymentResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if err := payment.Clear(accountID); err != nil {
			return err
		}
		if err := s.applyAccountEffect(ctx, tenantID, repos, payment, payment.AccountDelta(),
			fmt.Sprintf("Cheque %s cleared on payment %s", payment.ChequeNumber, payment.PaymentNumber)); err != nil {
			return err
		}
		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}
		response = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	var response PaymentResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		response = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByParty retrieves payments for a party with pagination
func (s *PaymentService) ListByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]PaymentResponse, error) {
	var responses []PaymentResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		payments, err := repos.Payments().FindByParty(ctx, tenantID, partyID, filter)
		if err != nil {
			return err
		}
		responses = make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			responses = append(responses, ToPaymentResponse(&payments[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// settleBill applies one allocation against an invoice. The settled invoice
// must belong to the same party, and its type must match the payment
// direction: money in settles sales bills, money out settles purchase bills.
func (s *PaymentService) settleBill(ctx context.Context, tenantID uuid.UUID, repos apptrade.TransactionalRepositories, payment *billing.Payment, alloc BillAllocationInput) error {
	inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, alloc.InvoiceID)
	if err != nil {
		return err
	}
	if inv.PartyID != payment.PartyID {
		return shared.NewDomainError("INVALID_REFERENCE", "Settled invoice belongs to another party")
	}
	expected := trade.InvoiceTypeSale
	if payment.Direction == billing.PaymentOut {
		expected = trade.InvoiceTypePurchase
	}
	if inv.Type != expected {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment direction does not match the invoice type")
	}
	if alloc.Amount.GreaterThan(inv.BalanceDue()) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Allocation exceeds the balance due on invoice %s", inv.InvoiceNumber))
	}
	if err := payment.AddSettlement(inv.ID, alloc.Amount); err != nil {
		return err
	}
	if err := inv.RecordPayment(inv.AmountPaid.Add(alloc.Amount)); err != nil {
		return err
	}
	return repos.Invoices().Save(ctx, inv)
}

// applyAccountEffect shifts the account balance and appends the movement record
func (s *PaymentService) applyAccountEffect(ctx context.Context, tenantID uuid.UUID, repos apptrade.TransactionalRepositories, payment *billing.Payment, delta decimal.Decimal, description string) error {
	if payment.AccountID == nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment has no account to apply")
	}
	account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, *payment.AccountID)
	if err != nil {
		return err
	}
	balance := account.ApplyDelta(delta)
	if err := repos.Accounts().Save(ctx, account); err != nil {
		return err
	}
	tx, err := billing.NewAccountTransaction(tenantID, account.ID, delta, balance, &payment.ID, description)
	if err != nil {
		return err
	}
	return repos.AccountTransactions().Append(ctx, tx)
}

// paymentDescription renders the ledger description for a payment
func paymentDescription(p *billing.Payment) string {
	if p.Direction == billing.PaymentOut {
		return fmt.Sprintf("Payment out %s (%s)", p.PaymentNumber, p.Method)
	}
	return fmt.Sprintf("Payment in %s (%s)", p.PaymentNumber, p.Method)
}

// maxDecimal returns the larger of two decimals
func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
