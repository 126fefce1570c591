package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/catalog"
	"github.com/medibooks/backend/internal/domain/shared"
)

// CreateProductCommand registers a product in the catalog
type CreateProductCommand struct {
	ActorID uuid.UUID
	Name    string
	Unit    string
	Pack    string
	HSNCode string
	GSTRate decimal.Decimal
}

// UpdateProductCommand edits product master data. Quantity is never touched
// here; stock moves only through inventory and invoice operations.
type UpdateProductCommand struct {
	ProductID uuid.UUID
	Name      string
	Unit      string
	Pack      string
	HSNCode   string
	GSTRate   decimal.Decimal
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	Pack      string          `json:"pack,omitempty"`
	HSNCode   string          `json:"hsn_code,omitempty"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
	Quantity  int64           `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse maps a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		Pack:      p.Pack,
		HSNCode:   p.HSNCode,
		GSTRate:   p.GSTRate,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
	}
}

// Service manages the product catalog
type Service struct {
	scope apptrade.TransactionScope
}

// NewService creates a new catalog Service
func NewService(scope apptrade.TransactionScope) *Service {
	return &Service{scope: scope}
}

// Create registers a product
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, cmd CreateProductCommand) (*ProductResponse, error) {
	var response ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if existing, err := repos.Products().FindByName(ctx, tenantID, cmd.Name); err == nil && existing != nil {
			return shared.ErrAlreadyExists
		}
		product, err := catalog.NewProduct(tenantID, cmd.Name, cmd.Unit, cmd.Pack, cmd.HSNCode, cmd.GSTRate)
		if err != nil {
			return err
		}
		if cmd.ActorID != uuid.Nil {
			product.SetCreatedBy(cmd.ActorID)
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update edits product master data
func (s *Service) Update(ctx context.Context, tenantID uuid.UUID, cmd UpdateProductCommand) (*ProductResponse, error) {
	if cmd.Name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name is required")
	}
	if cmd.GSTRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "GST rate cannot be negative")
	}

	var response ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, cmd.ProductID)
		if err != nil {
			return err
		}
		product.Name = cmd.Name
		product.Unit = cmd.Unit
		product.Pack = cmd.Pack
		product.HSNCode = cmd.HSNCode
		product.GSTRate = cmd.GSTRate
		product.UpdatedAt = time.Now()
		product.IncrementVersion()

		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	var response ProductResponse
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves products with pagination and search
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	var page shared.Paginated[ProductResponse]
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		products, err := repos.Products().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		total, err := repos.Products().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		items := make([]ProductResponse, 0, len(products))
		for i := range products {
			items = append(items, ToProductResponse(&products[i]))
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return page, nil
}
