package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/shared"
)

// Service covers the stock operations that happen outside the invoice flow:
// opening-stock import, manual adjustment, and the read side of the timeline.
type Service struct {
	scope apptrade.TransactionScope
}

// NewService creates a new inventory Service
func NewService(scope apptrade.TransactionScope) *Service {
	return &Service{scope: scope}
}

// ImportOpeningStock seeds batches for a product. Rows matching an existing
// batch number top it up; new numbers open new batches. Each row appends an
// IMPORT timeline entry.
func (s *Service) ImportOpeningStock(ctx context.Context, tenantID uuid.UUID, cmd ImportOpeningStockCommand) (*ProductStockResponse, error) {
	if len(cmd.Rows) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Import needs at least one row")
	}
	for _, row := range cmd.Rows {
		if row.Quantity <= 0 {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Import quantity must be positive")
		}
	}

	var response ProductStockResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, cmd.ProductID)
		if err != nil {
			return err
		}

		for _, row := range cmd.Rows {
			batch, err := repos.Batches().FindByProductAndNumber(ctx, tenantID, product.ID, row.BatchNumber)
			switch {
			case err == nil:
				if err := batch.ApplyDelta(row.Quantity); err != nil {
					return err
				}
				if err := repos.Batches().Save(ctx, batch); err != nil {
					return err
				}
			case errors.Is(err, shared.ErrNotFound):
				batch, err = inventory.NewBatch(tenantID, product.ID, inventory.BatchFields{
					BatchNumber:  row.BatchNumber,
					Expiry:       row.Expiry,
					MRP:          row.MRP,
					GSTRate:      row.GSTRate,
					PurchaseRate: row.PurchaseRate,
					SaleRate:     row.SaleRate,
					Pack:         row.Pack,
				}, row.Quantity)
				if err != nil {
					return err
				}
				if err := repos.Batches().Save(ctx, batch); err != nil {
					return err
				}
			default:
				return err
			}

			if err := product.ApplyQuantityDelta(row.Quantity); err != nil {
				return err
			}
			entry, err := inventory.NewStockEntry(tenantID, product.ID, &batch.ID, nil,
				inventory.MovementImport, row.Quantity, product.Quantity, inventory.EntryContext{Remark: cmd.Remark})
			if err != nil {
				return err
			}
			if err := repos.StockEntries().Append(ctx, entry); err != nil {
				return err
			}
		}

		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return s.loadStock(ctx, tenantID, repos, product.ID, &response)
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// AdjustStock corrects a product's stock by a signed delta with an
// ADJUSTMENT timeline entry. Negative deltas fail rather than drive any
// quantity below zero.
func (s *Service) AdjustStock(ctx context.Context, tenantID uuid.UUID, cmd AdjustStockCommand) (*ProductStockResponse, error) {
	if cmd.Delta == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment delta cannot be zero")
	}

	var response ProductStockResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, cmd.ProductID)
		if err != nil {
			return err
		}

		if cmd.BatchID != nil {
			batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, *cmd.BatchID)
			if err != nil {
				return err
			}
			if batch.ProductID != product.ID {
				return shared.NewDomainError("INVALID_REFERENCE", "Batch does not belong to the product")
			}
			if err := batch.ApplyDelta(cmd.Delta); err != nil {
				return err
			}
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return err
			}
		}

		if err := product.ApplyQuantityDelta(cmd.Delta); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}

		entry, err := inventory.NewStockEntry(tenantID, product.ID, cmd.BatchID, nil,
			inventory.MovementAdjustment, cmd.Delta, product.Quantity, inventory.EntryContext{Remark: cmd.Remark})
		if err != nil {
			return err
		}
		if err := repos.StockEntries().Append(ctx, entry); err != nil {
			return err
		}
		return s.loadStock(ctx, tenantID, repos, product.ID, &response)
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ProductStock returns a product's aggregate quantity and its batches
func (s *Service) ProductStock(ctx context.Context, tenantID, productID uuid.UUID) (*ProductStockResponse, error) {
	var response ProductStockResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		return s.loadStock(ctx, tenantID, repos, productID, &response)
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Timeline returns the stock movement history for a product
func (s *Service) Timeline(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockEntryResponse, error) {
	var responses []StockEntryResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		entries, err := repos.StockEntries().FindByProduct(ctx, tenantID, productID, filter)
		if err != nil {
			return err
		}
		responses = make([]StockEntryResponse, 0, len(entries))
		for i := range entries {
			responses = append(responses, ToStockEntryResponse(&entries[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ExpiringBatches lists stocked batches whose expiry falls on or before the
// cutoff month.
func (s *Service) ExpiringBatches(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]BatchResponse, error) {
	var responses []BatchResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		batches, err := repos.Batches().FindExpiringBy(ctx, tenantID, cutoff, filter)
		if err != nil {
			return err
		}
		responses = make([]BatchResponse, 0, len(batches))
		for i := range batches {
			responses = append(responses, ToBatchResponse(&batches[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// loadStock assembles the product stock view inside the current transaction
func (s *Service) loadStock(ctx context.Context, tenantID uuid.UUID, repos apptrade.TransactionalRepositories, productID uuid.UUID, out *ProductStockResponse) error {
	product, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	batches, err := repos.Batches().FindByProduct(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	views := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		views = append(views, ToBatchResponse(&batches[i]))
	}
	*out = ProductStockResponse{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Batches:   views,
	}
	return nil
}
