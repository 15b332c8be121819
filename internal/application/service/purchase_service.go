package service

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// PurchaseService handles purchase-related operations
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
	}
}

// CreatePurchaseInput represents the create purchase input
type CreatePurchaseInput struct {
	UserID     uuid.UUID
	ItemID     uuid.UUID
	SupplierID uuid.UUID
	Quantity   int
	Rate       float64
	Date       datetime.Date
}

// CreatePurchase records a purchase; the total is always quantity × rate
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*entity.Purchase, error) {
	var errs apperror.FieldErrors
	rate := checkLine(&errs, input.Quantity, input.Rate, input.Date)
	if err := s.checkReferences(ctx, &errs, input.ItemID, input.SupplierID); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ItemID:     input.ItemID,
		SupplierID: input.SupplierID,
		Quantity:   input.Quantity,
		Rate:       rate,
		Total:      money.LineTotal(input.Quantity, rate),
		Date:       input.Date,
	}
	if input.UserID != uuid.Nil {
		purchase.CreatedBy = &input.UserID
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	return s.GetPurchase(ctx, purchase.ID)
}

// checkReferences records field errors for unknown item or supplier IDs
func (s *PurchaseService) checkReferences(ctx context.Context, errs *apperror.FieldErrors, itemID, supplierID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		errs.Add("item_id", "item not found")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		errs.Add("supplier_id", "supplier not found")
	}
	return nil
}

// GetPurchase retrieves a purchase with its item and supplier
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases, newest first
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	if err := checkDateRange(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

// UpdatePurchaseInput represents the update purchase input. Nil fields are left unchanged.
type UpdatePurchaseInput struct {
	ID         uuid.UUID
	ItemID     *uuid.UUID
	SupplierID *uuid.UUID
	Quantity   *int
	Rate       *float64
	Date       *datetime.Date
}

// UpdatePurchase updates a purchase and recomputes its total
func (s *PurchaseService) UpdatePurchase(ctx context.Context, input *UpdatePurchaseInput) (*entity.Purchase, error) {
	purchase, err := s.GetPurchase(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ItemID != nil {
		purchase.ItemID = *input.ItemID
	}
	if input.SupplierID != nil {
		purchase.SupplierID = *input.SupplierID
	}
	if input.Quantity != nil {
		purchase.Quantity = *input.Quantity
	}
	rate := money.FromCents(purchase.Rate)
	if input.Rate != nil {
		rate = *input.Rate
	}
	if input.Date != nil {
		purchase.Date = *input.Date
	}

	var errs apperror.FieldErrors
	purchase.Rate = checkLine(&errs, purchase.Quantity, rate, purchase.Date)
	if err := s.checkReferences(ctx, &errs, purchase.ItemID, purchase.SupplierID); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	purchase.Total = money.LineTotal(purchase.Quantity, purchase.Rate)
	purchase.Item, purchase.Supplier = nil, nil

	if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
		return nil, err
	}

	return s.GetPurchase(ctx, purchase.ID)
}

// DeletePurchase deletes a purchase
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPurchase(ctx, id); err != nil {
		return err
	}
	return s.purchaseRepo.Delete(ctx, id)
}

// TotalQuantityByItem returns the quantity ever purchased of an item
func (s *PurchaseService) TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	return s.purchaseRepo.TotalQuantityByItem(ctx, itemID)
}

// AverageRateByItem returns the mean purchase rate of an item, 0 when never purchased
func (s *PurchaseService) AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error) {
	avg, err := s.purchaseRepo.AverageRateByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return money.Round2(avg / 100), nil
}
