package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// TransactionFilterParams contains filtering parameters shared by purchase
// and sale queries. PartyID is the supplier for purchases and the customer
// for sales. Dates are inclusive.
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	ItemID     *uuid.UUID
	PartyID    *uuid.UUID
	StartDate  *datetime.Date
	EndDate    *datetime.Date
}

// PurchaseRepository defines the interface for purchase data operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetByID loads the purchase with its item and supplier.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	Update(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List orders by date then creation time, newest first.
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Purchase, int64, error)
	TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	// AverageRateByItem returns the mean rate in cents, 0 without purchases.
	AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error)
}
