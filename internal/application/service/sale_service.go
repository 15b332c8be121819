package service

import (
	"context"
	"errors"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// SaleService handles sale-related operations
type SaleService struct {
	saleRepo     repository.SaleRepository
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	enforceStock bool
}

// NewSaleService creates a new sale service. With enforceStock set, sales
// that exceed the item's balance are rejected.
func NewSaleService(
	saleRepo repository.SaleRepository,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	enforceStock bool,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		enforceStock: enforceStock,
	}
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	UserID     uuid.UUID
	ItemID     uuid.UUID
	CustomerID uuid.UUID
	Quantity   int
	Rate       float64
	Date       datetime.Date
}

func insufficientStock() error {
	return apperror.NewValidationError([]apperror.FieldError{
		{Field: "quantity", Message: "insufficient stock for this item"},
	})
}

// CreateSale records a sale; the total is always quantity × rate
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	var errs apperror.FieldErrors
	rate := checkLine(&errs, input.Quantity, input.Rate, input.Date)
	if err := s.checkReferences(ctx, &errs, input.ItemID, input.CustomerID); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		ItemID:     input.ItemID,
		CustomerID: input.CustomerID,
		Quantity:   input.Quantity,
		Rate:       rate,
		Total:      money.LineTotal(input.Quantity, rate),
		Date:       input.Date,
	}
	if input.UserID != uuid.Nil {
		sale.CreatedBy = &input.UserID
	}

	var err error
	if s.enforceStock {
		err = s.saleRepo.CreateWithinStock(ctx, sale)
	} else {
		err = s.saleRepo.Create(ctx, sale)
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, insufficientStock()
	}
	if err != nil {
		return nil, err
	}

	return s.GetSale(ctx, sale.ID)
}

// checkReferences records field errors for unknown item or customer IDs
func (s *SaleService) checkReferences(ctx context.Context, errs *apperror.FieldErrors, itemID, customerID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		errs.Add("item_id", "item not found")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		errs.Add("customer_id", "customer not found")
	}
	return nil
}

// GetSale retrieves a sale with its item and customer
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales, newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if err := checkDateRange(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// UpdateSaleInput represents the update sale input. Nil fields are left unchanged.
type UpdateSaleInput struct {
	ID         uuid.UUID
	ItemID     *uuid.UUID
	CustomerID *uuid.UUID
	Quantity   *int
	Rate       *float64
	Date       *datetime.Date
}

// UpdateSale updates a sale and recomputes its total
func (s *SaleService) UpdateSale(ctx context.Context, input *UpdateSaleInput) (*entity.Sale, error) {
	sale, err := s.GetSale(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ItemID != nil {
		sale.ItemID = *input.ItemID
	}
	if input.CustomerID != nil {
		sale.CustomerID = *input.CustomerID
	}
	if input.Quantity != nil {
		sale.Quantity = *input.Quantity
	}
	rate := money.FromCents(sale.Rate)
	if input.Rate != nil {
		rate = *input.Rate
	}
	if input.Date != nil {
		sale.Date = *input.Date
	}

	var errs apperror.FieldErrors
	sale.Rate = checkLine(&errs, sale.Quantity, rate, sale.Date)
	if err := s.checkReferences(ctx, &errs, sale.ItemID, sale.CustomerID); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	sale.Total = money.LineTotal(sale.Quantity, sale.Rate)
	sale.Item, sale.Customer = nil, nil

	if s.enforceStock {
		err = s.saleRepo.UpdateWithinStock(ctx, sale)
	} else {
		err = s.saleRepo.Update(ctx, sale)
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, insufficientStock()
	}
	if err != nil {
		return nil, err
	}

	return s.GetSale(ctx, sale.ID)
}

// DeleteSale deletes a sale
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSale(ctx, id); err != nil {
		return err
	}
	return s.saleRepo.Delete(ctx, id)
}

// TotalQuantityByItem returns the quantity ever sold of an item
func (s *SaleService) TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	return s.saleRepo.TotalQuantityByItem(ctx, itemID)
}

// AverageRateByItem returns the mean sales rate of an item, 0 when never sold
func (s *SaleService) AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error) {
	avg, err := s.saleRepo.AverageRateByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return money.Round2(avg / 100), nil
}
