package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// InvoiceService orchestrates invoice create/edit/delete and returns. Every
// operation runs inside one TransactionScope execution: stock deltas, the
// stock timeline, party and account running balances, payments and the
// invoice document commit together or not at all.
type InvoiceService struct {
	scope TransactionScope
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope) *InvoiceService {
	return &InvoiceService{scope: scope}
}

// Create creates a purchase or sales invoice with its stock, ledger, party
// and payment effects.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, cmd CreateInvoiceCommand) (*InvoiceResponse, error) {
	if !cmd.Type.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown invoice type")
	}
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice needs at least one line item")
	}

	var response InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, cmd.PartyID)
		if err != nil {
			return err
		}

		fiscalYear := sequence.CurrentFiscalYear()
		kind := cmd.Type.SequenceKind()
		n, err := repos.Sequences().Next(ctx, tenantID, kind, fiscalYear)
		if err != nil {
			return err
		}
		invoiceNumber := sequence.Format(kind, fiscalYear, n)

		inv, err := trade.NewInvoice(tenantID, cmd.Type, invoiceNumber, fiscalYear, party.ID, party.Name)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			inv.SetCreatedBy(cmd.ActorID)
		}
		inv.Remark = cmd.Remark
		if cmd.AsDraft {
			inv.MarkDraft()
		}

		if err := s.buildItems(ctx, tenantID, repos, inv, cmd.Items); err != nil {
			return err
		}

		// Drafts hold the document only; stock, payment and party effects
		// apply on finalization.
		if !cmd.AsDraft {
			if err := s.applyStockEffects(ctx, tenantID, repos, inv, cmd.Type.StockMovement()); err != nil {
				return err
			}
			if err := s.applyPayment(ctx, tenantID, repos, inv, party, cmd.Payment); err != nil {
				return err
			}
			if err := s.applyPartyEffect(ctx, tenantID, repos, inv, party, inv.PartyBalanceDelta(),
				fmt.Sprintf("%s invoice %s", titleFor(inv.Type), inv.InvoiceNumber)); err != nil {
				return err
			}
		}

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Edit reverses the invoice's prior stock and balance effects, then reapplies
// the command as if creating fresh, recording _EDIT movements. The net party
// and account effect is exactly the difference between old and new totals.
// Blocked while returns or payment settlements reference the invoice: both
// were validated against the old lineset, and a full reversal would leave
// them pointing at quantities and amounts that no longer exist.
func (s *InvoiceService) Edit(ctx context.Context, tenantID uuid.UUID, cmd EditInvoiceCommand) (*InvoiceResponse, error) {
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice needs at least one line item")
	}

	var response InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, cmd.InvoiceID)
		if err != nil {
			return err
		}
		if !inv.CanModify() {
			return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be edited")
		}

		returnCount, err := repos.Returns().CountByInvoice(ctx, tenantID, cmd.InvoiceID)
		if err != nil {
			return err
		}
		if returnCount > 0 {
			return shared.ErrConflictingReturn
		}

		settlementCount, err := repos.Payments().CountSettlementsByInvoice(ctx, tenantID, cmd.InvoiceID)
		if err != nil {
			return err
		}
		if settlementCount > 0 {
			return shared.NewDomainError("INVALID_STATE", "Invoice has payments settled against it; delete those payments first")
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, inv.PartyID)
		if err != nil {
			return err
		}

		wasActive := inv.IsActive()
		if wasActive {
			if err := s.reverseStockEffects(ctx, tenantID, repos, inv, inv.Type.EditMovement(), "Invoice edited"); err != nil {
				return err
			}
			if err := s.reversePayments(ctx, tenantID, repos, inv, party, "Invoice edited"); err != nil {
				return err
			}
			if err := s.applyPartyEffect(ctx, tenantID, repos, inv, party, inv.PartyBalanceDelta().Neg(),
				fmt.Sprintf("Invoice %s edited (reversal)", inv.InvoiceNumber)); err != nil {
				return err
			}
		}

		inv.ReplaceItems(nil)
		inv.AmountPaid = decimal.Zero
		if err := s.buildItems(ctx, tenantID, repos, inv, cmd.Items); err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			inv.SetCreatedBy(cmd.ActorID)
		}

		if wasActive {
			if err := s.applyStockEffects(ctx, tenantID, repos, inv, inv.Type.EditMovement()); err != nil {
				return err
			}
			if err := s.applyPayment(ctx, tenantID, repos, inv, party, cmd.Payment); err != nil {
				return err
			}
			if err := s.applyPartyEffect(ctx, tenantID, repos, inv, party, inv.PartyBalanceDelta(),
				fmt.Sprintf("Invoice %s edited", inv.InvoiceNumber)); err != nil {
				return err
			}
		}

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete reverses every effect of the invoice and removes the document.
// Blocked while any return references the invoice.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}

		returnCount, err := repos.Returns().CountByInvoice(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if returnCount > 0 {
			return shared.ErrConflictingReturn
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, inv.PartyID)
		if err != nil {
			return err
		}

		if inv.IsActive() {
			if err := s.reverseStockEffects(ctx, tenantID, repos, inv, inv.Type.DeleteMovement(), "Invoice deleted"); err != nil {
				return err
			}
			if err := s.reversePayments(ctx, tenantID, repos, inv, party, "Invoice deleted"); err != nil {
				return err
			}
			if err := s.applyPartyEffect(ctx, tenantID, repos, inv, party, inv.PartyBalanceDelta().Neg(),
				fmt.Sprintf("Invoice %s deleted", inv.InvoiceNumber)); err != nil {
				return err
			}
		}

		return repos.Invoices().DeleteForTenant(ctx, tenantID, invoiceID)
	})
}

// Finalize activates a draft invoice, applying the stock, payment and party
// effects the draft was holding back.
func (s *InvoiceService) Finalize(ctx context.Context, tenantID, invoiceID uuid.UUID, payment *PaymentInput) (*InvoiceResponse, error) {
	var response InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.Finalize(); err != nil {
			return err
		}

		party, err := repos.Parties().FindByIDForTenant(ctx, tenantID, inv.PartyID)
		if err != nil {
			return err
		}

		if err := s.applyStockEffects(ctx, tenantID, repos, inv, inv.Type.StockMovement()); err != nil {
			return err
		}
		if err := s.applyPayment(ctx, tenantID, repos, inv, party, payment); err != nil {
			return err
		}
		if err := s.applyPartyEffect(ctx, tenantID, repos, inv, party, inv.PartyBalanceDelta(),
			fmt.Sprintf("%s invoice %s", titleFor(inv.Type), inv.InvoiceNumber)); err != nil {
			return err
		}

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var response InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves invoices of a type with pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, invoiceType trade.InvoiceType, filter shared.Filter) ([]InvoiceResponse, error) {
	var responses []InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.Invoices().FindByType(ctx, tenantID, invoiceType, filter)
		if err != nil {
			return err
		}
		responses = make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			responses = append(responses, ToInvoiceResponse(&invoices[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// buildItems resolves products and batches for the command lines and adds
// them to the invoice document. New batches may only be opened on purchases.
func (s *InvoiceService) buildItems(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, items []LineItemInput) error {
	for _, in := range items {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, in.ProductID)
		if err != nil {
			return err
		}

		var batchID *uuid.UUID
		var batchNumber string
		switch {
		case in.BatchID != nil:
			batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, *in.BatchID)
			if err != nil {
				return err
			}
			if batch.ProductID != product.ID {
				return shared.NewDomainError("INVALID_REFERENCE", "Batch does not belong to the product")
			}
			batchID = &batch.ID
			batchNumber = batch.BatchNumber
		case in.NewBatch != nil:
			if inv.Type != trade.InvoiceTypePurchase {
				return shared.NewDomainError("VALIDATION_ERROR", "New batches can only be opened on purchase invoices")
			}
			batch, err := inventory.NewBatch(tenantID, product.ID, inventory.BatchFields{
				BatchNumber:  in.NewBatch.BatchNumber,
				Expiry:       in.NewBatch.Expiry,
				MRP:          in.NewBatch.MRP,
				GSTRate:      in.NewBatch.GSTRate,
				PurchaseRate: in.NewBatch.PurchaseRate,
				SaleRate:     in.NewBatch.SaleRate,
				Pack:         in.NewBatch.Pack,
			}, 0)
			if err != nil {
				return err
			}
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
			batchID = &batch.ID
			batchNumber = batch.BatchNumber
		default:
			return shared.NewDomainError("VALIDATION_ERROR", "Line item needs a batch reference or new batch fields")
		}

		if _, err := inv.AddItem(product.ID, batchID, batchNumber, product.Name,
			in.Quantity, in.FreeQuantity, in.Rate, in.MRP, in.DiscountPct, in.GSTRate); err != nil {
			return err
		}
	}
	return nil
}

// applyStockEffects applies each line's stock delta to its batch and the
// product aggregate, appending a timeline entry with the resulting balance.
func (s *InvoiceService) applyStockEffects(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, movement inventory.MovementType) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		delta := item.StockDelta(inv.Type)
		if err := s.moveStock(ctx, tenantID, repos, item.ProductID, item.BatchID, &inv.ID, movement, delta, inventory.EntryContext{
			PartyName:      inv.PartyName,
			DocumentNumber: inv.InvoiceNumber,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reverseStockEffects undoes each line's stock delta with the given movement
// type, so edits and deletes leave an audit trail instead of rewriting
// history.
func (s *InvoiceService) reverseStockEffects(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, movement inventory.MovementType, remark string) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		delta := -item.StockDelta(inv.Type)
		if err := s.moveStock(ctx, tenantID, repos, item.ProductID, item.BatchID, &inv.ID, movement, delta, inventory.EntryContext{
			PartyName:      inv.PartyName,
			DocumentNumber: inv.InvoiceNumber,
			Remark:         remark,
		}); err != nil {
			return err
		}
	}
	return nil
}

// moveStock applies one signed delta to a batch and its product aggregate and
// appends the timeline entry, all against the transaction-bound repositories.
func (s *InvoiceService) moveStock(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, productID uuid.UUID, batchID, invoiceID *uuid.UUID, movement inventory.MovementType, delta int64, entryCtx inventory.EntryContext) error {
	product, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}

	if batchID != nil {
		batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, *batchID)
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

	entry, err := inventory.NewStockEntry(tenantID, productID, batchID, invoiceID, movement, delta, product.Quantity, entryCtx)
	if err != nil {
		return err
	}
	return repos.StockEntries().Append(ctx, entry)
}

// applyPayment records the payment sub-document captured with the invoice:
// account balance, account transaction, payment record, invoice link.
func (s *InvoiceService) applyPayment(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, party *partner.Party, in *PaymentInput) error {
	if in == nil || !in.Amount.IsPositive() {
		return inv.RecordPayment(decimal.Zero)
	}

	direction := billing.PaymentIn
	if inv.Type == trade.InvoiceTypePurchase {
		direction = billing.PaymentOut
	}

	n, err := repos.Sequences().Next(ctx, tenantID, sequence.KindPayment, inv.FiscalYear)
	if err != nil {
		return err
	}
	payment, err := billing.NewPayment(tenantID, party.ID, in.AccountID,
		sequence.Format(sequence.KindPayment, inv.FiscalYear, n), in.Amount, in.Method, direction)
	if err != nil {
		return err
	}
	payment.LinkInvoice(inv.ID)

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
			&payment.ID, fmt.Sprintf("Invoice %s", inv.InvoiceNumber))
		if err != nil {
			return err
		}
		if err := repos.AccountTransactions().Append(ctx, tx); err != nil {
			return err
		}
	}

	if err := repos.Payments().Save(ctx, payment); err != nil {
		return err
	}
	return inv.RecordPayment(in.Amount)
}

// reversePayments undoes the account effect of every payment linked to the
// invoice and removes the payment records.
func (s *InvoiceService) reversePayments(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, party *partner.Party, reason string) error {
	payments, err := repos.Payments().FindByInvoice(ctx, tenantID, inv.ID)
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
				&payment.ID, reason)
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

// applyPartyEffect shifts the party running balance and appends the matching
// ledger entry. A zero delta writes nothing.
func (s *InvoiceService) applyPartyEffect(ctx context.Context, tenantID uuid.UUID, repos TransactionalRepositories, inv *trade.Invoice, party *partner.Party, delta decimal.Decimal, description string) error {
	if delta.IsZero() {
		return nil
	}
	balance := party.ApplyBalanceDelta(delta)
	if err := repos.Parties().Save(ctx, party); err != nil {
		return err
	}
	entry, err := partner.NewLedgerEntry(tenantID, party.ID, delta, balance, description, &inv.ID, inv.InvoiceNumber)
	if err != nil {
		return err
	}
	return repos.PartyLedger().Append(ctx, entry)
}

// titleFor renders the invoice type for ledger descriptions
func titleFor(t trade.InvoiceType) string {
	if t == trade.InvoiceTypePurchase {
		return "Purchase"
	}
	return "Sales"
}
