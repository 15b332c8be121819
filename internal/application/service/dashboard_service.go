package service

import (
	"context"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
)

const dashboardTopLimit = 5

// DashboardService provides dashboard statistics
type DashboardService struct {
	financeService   *FinanceService
	inventoryService *InventoryService
	customerRepo     repository.CustomerRepository
	supplierRepo     repository.SupplierRepository
	itemRepo         repository.ItemRepository
	now              func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	financeService *FinanceService,
	inventoryService *InventoryService,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
) *DashboardService {
	return &DashboardService{
		financeService:   financeService,
		inventoryService: inventoryService,
		customerRepo:     customerRepo,
		supplierRepo:     supplierRepo,
		itemRepo:         itemRepo,
		now:              time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers int64             `json:"total_customers"`
	TotalSuppliers int64             `json:"total_suppliers"`
	TotalItems     int64             `json:"total_items"`
	MoneyIn        float64           `json:"money_in"`
	MoneyOut       float64           `json:"money_out"`
	Profit         float64           `json:"profit"`
	InventoryValue float64           `json:"inventory_value"`
	Inventory      *InventorySummary `json:"inventory"`
	Year           int               `json:"year"`
	MonthlyData    []MonthlyPoint    `json:"monthly_data"`
	TopCustomers   []TopCustomer     `json:"top_customers"`
	TopItems       []TopItem         `json:"top_items"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{Year: s.now().Year()}

	var err error
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSuppliers, err = s.supplierRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalItems, err = s.itemRepo.Count(ctx); err != nil {
		return nil, err
	}

	totals, err := s.financeService.Totals(ctx)
	if err != nil {
		return nil, err
	}
	stats.MoneyIn = totals.MoneyIn
	stats.MoneyOut = totals.MoneyOut
	stats.Profit = totals.Profit

	if stats.Inventory, err = s.inventoryService.Summary(ctx); err != nil {
		return nil, err
	}
	stats.InventoryValue = stats.Inventory.TotalSalesValue

	if stats.MonthlyData, err = s.financeService.MonthlyData(ctx, stats.Year); err != nil {
		return nil, err
	}
	if stats.TopCustomers, err = s.financeService.TopCustomers(ctx, dashboardTopLimit); err != nil {
		return nil, err
	}
	if stats.TopItems, err = s.financeService.TopItems(ctx, dashboardTopLimit); err != nil {
		return nil, err
	}

	return stats, nil
}
