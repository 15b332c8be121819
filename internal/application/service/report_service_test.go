package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
)

// seedTrading records Widget: 10@50 + 10@70 bought, 15@90 sold; Gadget: 5@10 bought.
func seedTrading(t *testing.T, env *testEnv) fixture {
	t.Helper()
	f := env.seed(t)
	env.buy(t, f.widget, f.acme, 10, 50, "2024-01-10")
	env.buy(t, f.widget, f.acme, 10, 70, "2024-02-10")
	env.buy(t, f.gadget, f.acme, 5, 10, "2024-02-11")
	env.sell(t, f.widget, f.corner, 15, 90, "2024-02-20")
	return f
}

func TestInventoryService_Calculate(t *testing.T) {
	env := newTestEnv(t)
	f := seedTrading(t, env)
	ctx := context.Background()

	item, err := env.inventory.CalculateForItem(ctx, f.widget.ID)
	if err != nil {
		t.Fatalf("CalculateForItem: %v", err)
	}
	if item.PurchasedQuantity != 20 || item.SoldQuantity != 15 || item.BalanceQuantity != 5 {
		t.Errorf("quantities = %+v", item)
	}
	if item.PurchaseRate != 60 || item.SalesRate != 90 {
		t.Errorf("rates = %v / %v", item.PurchaseRate, item.SalesRate)
	}
	if item.PurchaseValue != 300 || item.SalesValue != 450 {
		t.Errorf("values = %v / %v", item.PurchaseValue, item.SalesValue)
	}

	_, err = env.inventory.CalculateForItem(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound)

	all, err := env.inventory.CalculateInventory(ctx)
	if err != nil {
		t.Fatalf("CalculateInventory: %v", err)
	}
	if len(all) != 2 || all[0].ItemName != "Gadget" || all[1].ItemName != "Widget" {
		t.Errorf("inventory = %+v", all)
	}
}

func TestInventoryItem_OversoldValuesGoNegative(t *testing.T) {
	item := toInventoryItem(repository.ItemStockRow{
		ItemName: "Widget", PurchasedQty: 2, SoldQty: 5, AvgPurchaseRate: 1000, AvgSalesRate: 1500,
	})
	if item.BalanceQuantity != -3 || item.PurchaseValue != -30 || item.SalesValue != -45 {
		t.Errorf("oversold item = %+v", item)
	}
}

func TestInventoryService_StockLevels(t *testing.T) {
	env := newTestEnv(t)
	seedTrading(t, env)
	ctx := context.Background()
	if _, err := env.items.CreateItem(ctx, &CreateItemInput{Name: "Unused"}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	low, err := env.inventory.LowStock(ctx, 5)
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	// Gadget 5, Unused 0, Widget 5.
	if len(low) != 3 {
		t.Errorf("low stock = %+v", low)
	}

	out, _ := env.inventory.OutOfStock(ctx)
	if len(out) != 1 || out[0].ItemName != "Unused" {
		t.Errorf("out of stock = %+v", out)
	}

	summary, err := env.inventory.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalItems != 3 || summary.InStockItems != 2 || summary.OutOfStockItems != 1 || summary.LowStockItems != 2 {
		t.Errorf("counts = %+v", summary)
	}
	if summary.LowStockThreshold != testLowStockThreshold {
		t.Errorf("threshold = %d", summary.LowStockThreshold)
	}
	// Widget 300/450 plus Gadget 50/0.
	if summary.TotalPurchaseValue != 350 || summary.TotalSalesValue != 450 || summary.PotentialProfit != 100 {
		t.Errorf("values = %+v", summary)
	}
}

func TestFinanceService_Totals(t *testing.T) {
	env := newTestEnv(t)
	seedTrading(t, env)
	ctx := context.Background()

	totals, err := env.finance.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.MoneyIn != 1350 || totals.MoneyOut != 1250 || totals.Profit != 100 || totals.CurrentBalance != 100 {
		t.Errorf("totals = %+v", totals)
	}

	if in, _ := env.finance.TotalMoneyIn(ctx); in != 1350 {
		t.Errorf("TotalMoneyIn = %v", in)
	}
	if bal, _ := env.finance.CurrentBalance(ctx); bal != 100 {
		t.Errorf("CurrentBalance = %v", bal)
	}
}

func TestFinanceService_Summary(t *testing.T) {
	env := newTestEnv(t)
	seedTrading(t, env)
	ctx := context.Background()

	summary, err := env.finance.Summary(ctx, datetime.MustParseDate("2024-02-01"), datetime.MustParseDate("2024-02-29"))
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.SalesRevenue != 1350 || summary.PurchaseCosts != 750 || summary.Profit != 600 {
		t.Errorf("february = %+v", summary)
	}

	_, err = env.finance.Summary(ctx, datetime.MustParseDate("2024-03-01"), datetime.MustParseDate("2024-01-01"))
	appErr := requireAppError(t, err, http.StatusBadRequest)
	if appErr.Message != "start_date must not be after end_date" {
		t.Errorf("message = %q", appErr.Message)
	}

	_, err = env.finance.Summary(ctx, datetime.Date{}, datetime.MustParseDate("2024-01-01"))
	appErr = requireAppError(t, err, http.StatusUnprocessableEntity)
	if !hasFieldError(appErr, "start_date", "is required") {
		t.Errorf("errors = %+v", appErr.Errors)
	}
}

func TestFinanceService_Rankings(t *testing.T) {
	env := newTestEnv(t)
	f := seedTrading(t, env)
	ctx := context.Background()
	if _, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "Quiet Buyer"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	customers, err := env.finance.TopCustomers(ctx, 0)
	if err != nil {
		t.Fatalf("TopCustomers: %v", err)
	}
	if len(customers) != 2 || customers[0].CustomerID != f.corner.ID || customers[0].TotalSales != 1350 {
		t.Errorf("top customers = %+v", customers)
	}
	if customers[1].SaleCount != 0 || customers[1].TotalSales != 0 {
		t.Errorf("quiet customer = %+v", customers[1])
	}

	items, err := env.finance.TopItems(ctx, 1)
	if err != nil {
		t.Fatalf("TopItems: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Widget" || items[0].TotalQuantity != 15 {
		t.Errorf("top items = %+v", items)
	}
}

func TestFinanceService_RankingLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: fmt.Sprintf("Buyer %d", i)}); err != nil {
			t.Fatalf("create customer: %v", err)
		}
	}

	for limit, want := range map[int]int{0: 5, -3: 5, 2: 2, 500: 7} {
		customers, err := env.finance.TopCustomers(ctx, limit)
		if err != nil {
			t.Fatalf("TopCustomers(%d): %v", limit, err)
		}
		if len(customers) != want {
			t.Errorf("TopCustomers(%d) = %d rows, want %d", limit, len(customers), want)
		}
	}
}

func TestFinanceService_MonthlyData(t *testing.T) {
	env := newTestEnv(t)
	seedTrading(t, env)
	ctx := context.Background()

	points, err := env.finance.MonthlyData(ctx, 2024)
	if err != nil {
		t.Fatalf("MonthlyData: %v", err)
	}
	if len(points) != 12 || points[0].Label != "Jan" || points[11].Month != 12 {
		t.Fatalf("points = %+v", points)
	}
	if points[0].Purchases != 500 || points[0].Sales != 0 || points[0].Profit != -500 {
		t.Errorf("january = %+v", points[0])
	}
	if points[1].Purchases != 750 || points[1].Sales != 1350 || points[1].Profit != 600 {
		t.Errorf("february = %+v", points[1])
	}
	if points[5].Sales != 0 || points[5].Purchases != 0 {
		t.Errorf("june = %+v", points[5])
	}

	empty, _ := env.finance.MonthlyData(ctx, 2023)
	for _, p := range empty {
		if p.Sales != 0 || p.Purchases != 0 {
			t.Errorf("2023 point = %+v", p)
		}
	}

	_, err = env.finance.MonthlyData(ctx, 0)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestDashboardService_Stats(t *testing.T) {
	env := newTestEnv(t)
	seedTrading(t, env)
	env.dashboard.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	stats, err := env.dashboard.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if stats.TotalCustomers != 1 || stats.TotalSuppliers != 1 || stats.TotalItems != 2 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.MoneyIn != 1350 || stats.MoneyOut != 1250 || stats.Profit != 100 {
		t.Errorf("money = %+v", stats)
	}
	if stats.InventoryValue != 450 || stats.Inventory == nil || stats.Inventory.TotalItems != 2 {
		t.Errorf("inventory = %v %+v", stats.InventoryValue, stats.Inventory)
	}
	if stats.Year != 2024 || len(stats.MonthlyData) != 12 || stats.MonthlyData[1].Sales != 1350 {
		t.Errorf("monthly = %d %+v", stats.Year, stats.MonthlyData)
	}
	if len(stats.TopCustomers) != 1 || len(stats.TopItems) != 2 {
		t.Errorf("rankings = %+v %+v", stats.TopCustomers, stats.TopItems)
	}
}
