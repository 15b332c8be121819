package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
)

// ItemStockRow is the per-item purchase and sale aggregate behind the
// inventory views. Rates are averages in cents.
type ItemStockRow struct {
	ItemID          uuid.UUID `db:"item_id"`
	ItemName        string    `db:"item_name"`
	Category        *string   `db:"category"`
	PurchasedQty    int64     `db:"purchased_qty"`
	SoldQty         int64     `db:"sold_qty"`
	AvgPurchaseRate float64   `db:"avg_purchase_rate"`
	AvgSalesRate    float64   `db:"avg_sales_rate"`
}

// TopCustomerRow is a customer's sales total in cents.
type TopCustomerRow struct {
	CustomerID   uuid.UUID `db:"customer_id"`
	CustomerName string    `db:"customer_name"`
	SaleCount    int64     `db:"sale_count"`
	TotalSales   int64     `db:"total_sales"`
}

// TopItemRow is an item's sold quantity and revenue in cents.
type TopItemRow struct {
	ItemID        uuid.UUID `db:"item_id"`
	ItemName      string    `db:"item_name"`
	TotalQuantity int64     `db:"total_quantity"`
	TotalSales    int64     `db:"total_sales"`
}

// MonthlyRow holds sales and purchase totals in cents for a month (1-12).
type MonthlyRow struct {
	Month     int   `db:"month"`
	Sales     int64 `db:"sales"`
	Purchases int64 `db:"purchases"`
}

// ReportRepository runs the aggregation queries behind inventory and finance.
type ReportRepository interface {
	// ItemStock returns one row per item ordered by name. A nil itemID
	// selects every item.
	ItemStock(ctx context.Context, itemID *uuid.UUID) ([]ItemStockRow, error)
	// SalesTotal sums sale totals, optionally within an inclusive date range.
	SalesTotal(ctx context.Context, start, end *datetime.Date) (int64, error)
	// PurchasesTotal sums purchase totals, optionally within a date range.
	PurchasesTotal(ctx context.Context, start, end *datetime.Date) (int64, error)
	TopCustomers(ctx context.Context, limit int) ([]TopCustomerRow, error)
	TopItems(ctx context.Context, limit int) ([]TopItemRow, error)
	// Monthly returns only months with activity in year.
	Monthly(ctx context.Context, year int) ([]MonthlyRow, error)
	// Ping verifies the database answers queries.
	Ping(ctx context.Context) error
}
