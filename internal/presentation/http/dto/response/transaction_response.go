package response

import (
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// PurchaseResponse renders a purchase with amounts in currency units
type PurchaseResponse struct {
	ID           uuid.UUID     `json:"id"`
	ItemID       uuid.UUID     `json:"item_id"`
	ItemName     string        `json:"item_name"`
	SupplierID   uuid.UUID     `json:"supplier_id"`
	SupplierName string        `json:"supplier_name"`
	Quantity     int           `json:"quantity"`
	Rate         float64       `json:"rate"`
	Total        float64       `json:"total"`
	Date         datetime.Date `json:"date"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SaleResponse renders a sale with amounts in currency units
type SaleResponse struct {
	ID           uuid.UUID     `json:"id"`
	ItemID       uuid.UUID     `json:"item_id"`
	ItemName     string        `json:"item_name"`
	CustomerID   uuid.UUID     `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Quantity     int           `json:"quantity"`
	Rate         float64       `json:"rate"`
	Total        float64       `json:"total"`
	Date         datetime.Date `json:"date"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewPurchaseResponse converts a purchase entity
func NewPurchaseResponse(p *entity.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:         p.ID,
		ItemID:     p.ItemID,
		SupplierID: p.SupplierID,
		Quantity:   p.Quantity,
		Rate:       money.FromCents(p.Rate),
		Total:      money.FromCents(p.Total),
		Date:       p.Date,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Item != nil {
		resp.ItemName = p.Item.Name
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}

// NewSaleResponse converts a sale entity
func NewSaleResponse(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:         s.ID,
		ItemID:     s.ItemID,
		CustomerID: s.CustomerID,
		Quantity:   s.Quantity,
		Rate:       money.FromCents(s.Rate),
		Total:      money.FromCents(s.Total),
		Date:       s.Date,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Item != nil {
		resp.ItemName = s.Item.Name
	}
	if s.Customer != nil {
		resp.CustomerName = s.Customer.Name
	}
	return resp
}

// NewPurchasePage converts a page of purchases
func NewPurchasePage(result *pagination.PaginatedResult[entity.Purchase]) *pagination.PaginatedResult[PurchaseResponse] {
	items := make([]PurchaseResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, NewPurchaseResponse(&result.Items[i]))
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}

// NewSalePage converts a page of sales
func NewSalePage(result *pagination.PaginatedResult[entity.Sale]) *pagination.PaginatedResult[SaleResponse] {
	items := make([]SaleResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, NewSaleResponse(&result.Items[i]))
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}
