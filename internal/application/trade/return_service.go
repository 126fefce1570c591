package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// ReturnService handles credit notes (sales returns) and debit notes
// (purchase returns) raised against active invoices.
type ReturnService struct {
	scope TransactionScope
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope TransactionScope) *ReturnService {
	return &ReturnService{scope: scope}
}

// Create raises a return against an invoice. Cumulative returned quantity per
// invoice line is capped at the invoiced quantity; rates are taken from the
// original line, never from the caller.
func (s *ReturnService) Create(ctx context.Context, tenantID uuid.UUID, cmd CreateReturnCommand) (*ReturnResponse, error) {
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return needs at least one line item")
	}

	var response ReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, cmd.InvoiceID)
		if err != nil {
			return err
		}
		if !inv.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Returns can only be raised against active invoices")
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, inv.PartyID)
		if err != nil {
			return err
		}

		prior, err := repos.Returns().FindByInvoice(ctx, tenantID, inv.ID)
		if err != nil {
			return err
		}
		returned := returnedQuantities(prior)

		kind := trade.ReturnSequenceKind(inv.Type)
		fiscalYear := sequence.CurrentFiscalYear()
		n, err := repos.Sequences().Next(ctx, tenantID, kind, fiscalYear)
		if err != nil {
			return err
		}

		ret, err := trade.NewReturn(tenantID, sequence.Format(kind, fiscalYear, n), inv.Type, inv.ID, party.ID, party.Name)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			ret.SetCreatedBy(cmd.ActorID)
		}
		ret.Remark = cmd.Remark

		for _, in := range cmd.Items {
			line := matchInvoiceItem(inv, in.ProductID, in.BatchID)
			if line == nil {
				return shared.NewDomainError("INVALID_REFERENCE", "Returned item does not appear on the invoice")
			}
			key := lineKey{productID: in.ProductID, batchID: derefOrNil(in.BatchID)}
			if returned[key]+in.Quantity > line.Quantity {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Cannot return %d of %s, only %d remain returnable", in.Quantity, line.ProductName, line.Quantity-returned[key]))
			}
			if _, err := ret.AddItem(line.ProductID, line.BatchID, line.ProductName, in.Quantity, line.Rate, line.GSTRate); err != nil {
				return err
			}
		}

		if err := s.applyStockEffects(ctx, tenantID, repos, ret, false); err != nil {
			return err
		}
		if err := s.applyRefund(ctx, tenantID, repos, ret, party, cmd.Refund); err != nil {
			return err
		}

		delta := ret.PartyBalanceDelta()
		if !delta.IsZero() {
			balance := party.ApplyBalanceDelta(delta)
			if err := repos.Parties().Save(ctx, party); err != nil {
				return err
			}
			entry, err := partner.NewLedgerEntry(tenantID, party.ID, delta, balance,
				fmt.Sprintf("Return %s against invoice %s", ret.ReturnNumber, inv.InvoiceNumber), &ret.ID, ret.ReturnNumber)
			if err != nil {
				return err
			}
			if err := repos.PartyLedger().Append(ctx, entry); err != nil {
				return err
			}
		}

		if err := repos.Returns().Save(ctx, ret); err != nil {
			return err
		}
		response = ToReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete reverses a return's stock, refund and party effects and removes the
// document.
func (s *ReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ret, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, ret.PartyID)
		if err != nil {
			return err
		}

		if err := s.applyStockEffects(ctx, tenantID, repos, ret, true); err != nil {
			return err
		}
		if err := s.reverseRefund(ctx, tenantID, repos, ret); err != nil {
			return err
		}

		delta := ret.PartyBalanceDelta().Neg()
		if !delta.IsZero() {
			balance := party.ApplyBalanceDelta(delta)
			if err := repos.Parties().Save(ctx, party); err != nil {
				return err
			}
			entry, err := partner.NewLedgerEntry(tenantID, party.ID, delta, balance,
				fmt.Sprintf("Return %s deleted", ret.ReturnNumber), &ret.ID, ret.ReturnNumber)
			if err != nil {
				return err
			}
			if err := repos.PartyLedger().Append(ctx, entry); err != nil {
				return err
			}
		}

		return repos.Returns().DeleteForTenant(ctx, tenantID, returnID)
	})
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnResponse, error) {
	var response ReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ret, err := repos.Returns().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}
		response = ToReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByInvoice retrieves all returns raised against an invoice
func (s *ReturnService) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]ReturnResponse, error) {
	var responses []ReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		returns, err := repos.Returns().FindByInvoice(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		responses = make([]ReturnResponse, 0, len(returns))
		for i := range returns {
			responses = append(responses, ToReturnResponse(&returns[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// applyStockEffects moves stock for each returned line. Sales returns bring
// stock back in, purchase returns send it out; reverse flips the sign when a
// return is deleted.
func (s *ReturnService) applyStockEffects(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, ret *trade.Return, reverse bool) error {
	movement := ret.Type.ReturnMovement()
	remark := ""
	if reverse {
		remark = "Return deleted"
	}
	for i := range ret.Items {
		item := &ret.Items[i]
		delta := ret.StockDelta(item)
		if reverse {
			delta = -delta
		}

		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			return err
		}
		if item.BatchID != nil {
			batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, *item.BatchID)
			if err != nil {
				return err
			}
			if delta < 0 && !batch.CanFulfill(-delta) {
				return shared.ErrInsufficientStock
			}
			if err := batch.ApplyDelta(delta); err != nil {
				return err
			}
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
		}
		if err := product.ApplyQuantityDelta(delta); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}

		entry, err := inventory.NewStockEntry(tenantID, item.ProductID, item.BatchID, &ret.InvoiceID, movement, delta, product.Quantity, inventory.EntryContext{
			PartyName:      ret.PartyName,
			DocumentNumber: ret.ReturnNumber,
			Remark:         remark,
		})
		if err != nil {
			return err
		}
		if err := repos.StockEntries().Append(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// applyRefund records the cash/bank refund captured with the return. The
// refund is money out for a sales return and money in for a purchase return.
// Party balance is untouched here; the net effect already excludes the
// refunded portion.
func (s *ReturnService) applyRefund(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, ret *trade.Return, party *partner.Party, in *PaymentInput) error {
	if in == nil || !in.Amount.IsPositive() {
		return nil
	}
	if err := ret.RecordRefund(in.Amount); err != nil {
		return err
	}

	direction := billing.PaymentOut
	if ret.Type == trade.InvoiceTypePurchase {
		direction = billing.PaymentIn
	}

	fiscalYear := sequence.CurrentFiscalYear()
	n, err := repos.Sequences().Next(ctx, tenantID, sequence.KindPayment, fiscalYear)
	if err != nil {
		return err
	}
	payment, err := billing.NewPayment(tenantID, party.ID, in.AccountID,
		sequence.Format(sequence.KindPayment, fiscalYear, n), in.Amount, in.Method, direction)
	if err != nil {
		return err
	}
	payment.LinkInvoice(ret.ID)

	if payment.Status == billing.PaymentStatusCompleted {
		account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, *in.AccountID)
		if err != nil {
			return err
		}
		balance := account.ApplyDelta(payment.AccountDelta())
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		tx, err := billing.NewAccountTransaction(tenantID, account.ID, payment.AccountDelta(), balance,
			&payment.ID, fmt.Sprintf("Refund on return %s", ret.ReturnNumber))
		if err != nil {
			return err
		}
		if err := repos.AccountTransactions().Append(ctx, tx); err != nil {
			return err
		}
	}

	return repos.Payments().Save(ctx, payment)
}

// reverseRefund undoes the account effect of the refund payment linked to the
// return and removes the payment record.
func (s *ReturnService) reverseRefund(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, ret *trade.Return) error {
	payments, err := repos.Payments().FindByInvoice(ctx, tenantID, ret.ID)
	if err != nil {
		return err
	}
	for i := range payments {
		payment := &payments[i]
		if payment.Status == billing.PaymentStatusCompleted && payment.AccountID != nil {
			account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, *payment.AccountID)
			if err != nil {
				return err
			}
			balance := account.ApplyDelta(payment.AccountDelta().Neg())
			if err := repos.Accounts().Save(ctx, account); err != nil {
				return err
			}
			tx, err := billing.NewAccountTransaction(tenantID, account.ID, payment.AccountDelta().Neg(), balance,
				&payment.ID, fmt.Sprintf("Return %s deleted", ret.ReturnNumber))
			if err != nil {
				return err
			}
			if err := repos.AccountTransactions().Append(ctx, tx); err != nil {
				return err
			}
		}
		if err := repos.Payments().DeleteForTenant(ctx, tenantID, payment.ID); err != nil {
			return err
		}
	}
	return nil
}

// lineKey identifies an invoice line by product and batch for quantity caps
type lineKey struct {
	productID uuid.UUID
	batchID   uuid.UUID
}

// returnedQuantities sums previously returned quantity per invoice line
func returnedQuantities(returns []trade.Return) map[lineKey]int64 {
	out := make(map[lineKey]int64)
	for i := range returns {
		for _, item := range returns[i].Items {
			key := lineKey{productID: item.ProductID, batchID: derefOrNil(item.BatchID)}
			out[key] += item.Quantity
		}
	}
	return out
}

// matchInvoiceItem finds the invoice line for a returned product and batch
func matchInvoiceItem(inv *trade.Invoice, productID uuid.UUID, batchID *uuid.UUID) *trade.InvoiceItem {
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ProductID != productID {
			continue
		}
		if derefOrNil(item.BatchID) == derefOrNil(batchID) {
			return item
		}
	}
	return nil
}

func derefOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
