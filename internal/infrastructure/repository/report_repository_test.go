package repository

import (
	"context"
	"testing"

	"github.com/erpdesk/erpdesk-api/pkg/datetime"
)

func TestReportRepository_Aggregates(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()
	purchases := NewPurchaseRepository(db)
	sales := NewSaleRepository(db)

	_ = purchases.Create(ctx, purchase(f.items[0], f.suppliers[0], 10, 50, "2024-01-10"))
	_ = purchases.Create(ctx, purchase(f.items[0], f.suppliers[0], 10, 70, "2024-02-10"))
	_ = purchases.Create(ctx, purchase(f.items[1], f.suppliers[1], 5, 10, "2024-02-11"))
	_ = sales.Create(ctx, sale(f.items[0], f.customers[0], 15, 90, "2024-02-20"))
	_ = sales.Create(ctx, sale(f.items[1], f.customers[1], 1, 20, "2023-12-31"))

	repo, err := NewReportRepository(db)
	if err != nil {
		t.Fatalf("new report repo: %v", err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	rows, err := repo.ItemStock(ctx, nil)
	if err != nil {
		t.Fatalf("ItemStock: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want one per item", len(rows))
	}
	// Ordered by name: Gadget, Loose Item, Notebook, Widget.
	widget := rows[3]
	if widget.ItemName != "Widget" || widget.PurchasedQty != 20 || widget.SoldQty != 15 {
		t.Errorf("widget = %+v", widget)
	}
	if widget.AvgPurchaseRate != 6000 || widget.AvgSalesRate != 9000 {
		t.Errorf("widget rates = %v / %v", widget.AvgPurchaseRate, widget.AvgSalesRate)
	}
	if rows[1].PurchasedQty != 0 || rows[1].AvgPurchaseRate != 0 || rows[1].Category != nil {
		t.Errorf("unused item = %+v", rows[1])
	}

	one, err := repo.ItemStock(ctx, &f.items[1].ID)
	if err != nil || len(one) != 1 || one[0].ItemName != "Gadget" {
		t.Errorf("single item = %+v, %v", one, err)
	}

	in, _ := repo.SalesTotal(ctx, nil, nil)
	out, _ := repo.PurchasesTotal(ctx, nil, nil)
	if in != 137000 || out != 125000 {
		t.Errorf("totals in=%d out=%d", in, out)
	}
	start := datetime.MustParseDate("2024-01-01")
	end := datetime.MustParseDate("2024-12-31")
	in, _ = repo.SalesTotal(ctx, &start, &end)
	if in != 135000 {
		t.Errorf("2024 sales = %d", in)
	}

	top, err := repo.TopCustomers(ctx, 5)
	if err != nil {
		t.Fatalf("TopCustomers: %v", err)
	}
	if len(top) != 2 || top[0].CustomerName != "Corner Shop" || top[0].SaleCount != 1 {
		t.Errorf("top customers = %+v", top)
	}

	items, _ := repo.TopItems(ctx, 2)
	if len(items) != 2 || items[0].ItemName != "Widget" || items[0].TotalQuantity != 15 {
		t.Errorf("top items = %+v", items)
	}

	monthly, err := repo.Monthly(ctx, 2024)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(monthly) != 2 {
		t.Fatalf("monthly = %+v, want Jan and Feb", monthly)
	}
	if monthly[1].Month != 2 || monthly[1].Sales != 135000 || monthly[1].Purchases != 75000 {
		t.Errorf("february = %+v", monthly[1])
	}
}
