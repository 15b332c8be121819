package request

import (
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
)

// PurchaseRequest is the add form for purchases. Rate is in currency units.
type PurchaseRequest struct {
	ItemID     uuid.UUID     `json:"item_id"`
	SupplierID uuid.UUID     `json:"supplier_id"`
	Quantity   int           `json:"quantity"`
	Rate       float64       `json:"rate"`
	Date       datetime.Date `json:"date"`
}

// UpdatePurchaseRequest is the edit form for purchases
type UpdatePurchaseRequest struct {
	ItemID     *uuid.UUID     `json:"item_id"`
	SupplierID *uuid.UUID     `json:"supplier_id"`
	Quantity   *int           `json:"quantity"`
	Rate       *float64       `json:"rate"`
	Date       *datetime.Date `json:"date"`
}

// SaleRequest is the add form for sales
type SaleRequest struct {
	ItemID     uuid.UUID     `json:"item_id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Quantity   int           `json:"quantity"`
	Rate       float64       `json:"rate"`
	Date       datetime.Date `json:"date"`
}

// UpdateSaleRequest is the edit form for sales
type UpdateSaleRequest struct {
	ItemID     *uuid.UUID     `json:"item_id"`
	CustomerID *uuid.UUID     `json:"customer_id"`
	Quantity   *int           `json:"quantity"`
	Rate       *float64       `json:"rate"`
	Date       *datetime.Date `json:"date"`
}
