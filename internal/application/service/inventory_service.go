package service

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/google/uuid"
)

// InventoryService derives stock balances from recorded purchases and sales
type InventoryService struct {
	reportRepo        repository.ReportRepository
	lowStockThreshold int
}

// NewInventoryService creates a new inventory service
func NewInventoryService(reportRepo repository.ReportRepository, lowStockThreshold int) *InventoryService {
	return &InventoryService{
		reportRepo:        reportRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// InventoryItem is the stock position of a single item
type InventoryItem struct {
	ItemID            uuid.UUID `json:"item_id"`
	ItemName          string    `json:"item_name"`
	Category          *string   `json:"category,omitempty"`
	PurchasedQuantity int64     `json:"purchased_quantity"`
	SoldQuantity      int64     `json:"sold_quantity"`
	BalanceQuantity   int64     `json:"balance_quantity"`
	PurchaseRate      float64   `json:"purchase_rate"`
	SalesRate         float64   `json:"sales_rate"`
	PurchaseValue     float64   `json:"purchase_value"`
	SalesValue        float64   `json:"sales_value"`
}

// InventorySummary aggregates the stock position of every item
type InventorySummary struct {
	TotalItems         int     `json:"total_items"`
	InStockItems       int     `json:"in_stock_items"`
	OutOfStockItems    int     `json:"out_of_stock_items"`
	LowStockItems      int     `json:"low_stock_items"`
	LowStockThreshold  int     `json:"low_stock_threshold"`
	TotalPurchaseValue float64 `json:"total_purchase_value"`
	TotalSalesValue    float64 `json:"total_sales_value"`
	PotentialProfit    float64 `json:"potential_profit"`
}

// LowStockThreshold is the configured balance at or below which an item counts as low.
func (s *InventoryService) LowStockThreshold() int {
	return s.lowStockThreshold
}

func toInventoryItem(row repository.ItemStockRow) InventoryItem {
	balance := row.PurchasedQty - row.SoldQty
	return InventoryItem{
		ItemID:            row.ItemID,
		ItemName:          row.ItemName,
		Category:          row.Category,
		PurchasedQuantity: row.PurchasedQty,
		SoldQuantity:      row.SoldQty,
		BalanceQuantity:   balance,
		PurchaseRate:      money.Round2(row.AvgPurchaseRate / 100),
		SalesRate:         money.Round2(row.AvgSalesRate / 100),
		PurchaseValue:     money.Round2(row.AvgPurchaseRate * float64(balance) / 100),
		SalesValue:        money.Round2(row.AvgSalesRate * float64(balance) / 100),
	}
}

// CalculateInventory returns the stock position of every item, ordered by name
func (s *InventoryService) CalculateInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.reportRepo.ItemStock(ctx, nil)
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toInventoryItem(row))
	}
	return items, nil
}

// CalculateForItem returns the stock position of one item
func (s *InventoryService) CalculateForItem(ctx context.Context, itemID uuid.UUID) (*InventoryItem, error) {
	rows, err := s.reportRepo.ItemStock(ctx, &itemID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFoundError("Item")
	}

	item := toInventoryItem(rows[0])
	return &item, nil
}

// LowStock returns items whose balance is at or below threshold
func (s *InventoryService) LowStock(ctx context.Context, threshold int) ([]InventoryItem, error) {
	all, err := s.CalculateInventory(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]InventoryItem, 0)
	for _, item := range all {
		if item.BalanceQuantity <= int64(threshold) {
			low = append(low, item)
		}
	}
	return low, nil
}

// OutOfStock returns items with no remaining balance
func (s *InventoryService) OutOfStock(ctx context.Context) ([]InventoryItem, error) {
	return s.LowStock(ctx, 0)
}

// TotalPurchaseValue values the remaining stock at average purchase rates
func (s *InventoryService) TotalPurchaseValue(ctx context.Context) (float64, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.TotalPurchaseValue, nil
}

// TotalSalesValue values the remaining stock at average sales rates
func (s *InventoryService) TotalSalesValue(ctx context.Context) (float64, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.TotalSalesValue, nil
}

// PotentialProfit is the sales value minus the purchase value of remaining stock
func (s *InventoryService) PotentialProfit(ctx context.Context) (float64, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.PotentialProfit, nil
}

// Summary counts stock states and totals stock values
func (s *InventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	items, err := s.CalculateInventory(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(items, s.lowStockThreshold), nil
}

func summarize(items []InventoryItem, threshold int) *InventorySummary {
	summary := &InventorySummary{
		TotalItems:        len(items),
		LowStockThreshold: threshold,
	}

	var purchaseValue, salesValue float64
	for _, item := range items {
		if item.BalanceQuantity > 0 {
			summary.InStockItems++
			if item.BalanceQuantity <= int64(threshold) {
				summary.LowStockItems++
			}
		}
		purchaseValue += item.PurchaseValue
		salesValue += item.SalesValue
	}
	summary.OutOfStockItems = summary.TotalItems - summary.InStockItems
	summary.TotalPurchaseValue = money.Round2(purchaseValue)
	summary.TotalSalesValue = money.Round2(salesValue)
	summary.PotentialProfit = money.Round2(salesValue - purchaseValue)
	return summary
}
