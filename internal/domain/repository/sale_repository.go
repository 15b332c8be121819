package repository

import (
	"context"
	"errors"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/google/uuid"
)

// ErrInsufficientStock is returned when a sale would take an item's balance
// below zero while stock enforcement is on.
var ErrInsufficientStock = errors.New("insufficient stock")

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// CreateWithinStock inserts the sale only if the item's balance covers
	// it. The balance check and insert share one transaction.
	CreateWithinStock(ctx context.Context, sale *entity.Sale) error
	// GetByID loads the sale with its item and customer.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	// UpdateWithinStock is Update with the same guard as CreateWithinStock,
	// ignoring the sale's own previous quantity.
	UpdateWithinStock(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List orders by date then creation time, newest first.
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Sale, int64, error)
	TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	// AverageRateByItem returns the mean rate in cents, 0 without sales.
	AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error)
}
