package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/internal/infrastructure/database"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(&config.DatabaseConfig{Path: database.MemoryPath, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

type fixture struct {
	items     []entity.Item
	suppliers []entity.Supplier
	customers []entity.Customer
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		items: []entity.Item{
			{Name: "Widget", Category: strPtr("Hardware")},
			{Name: "Gadget", Category: strPtr("Hardware")},
			{Name: "Notebook", Category: strPtr("Stationery")},
			{Name: "Loose Item"},
		},
		suppliers: []entity.Supplier{{Name: "Acme Supply"}, {Name: "Bolt Traders"}},
		customers: []entity.Customer{{Name: "Corner Shop"}, {Name: "Downtown Retail"}},
	}
	for _, v := range []interface{}{&f.items, &f.suppliers, &f.customers} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return f
}

func purchase(item entity.Item, supplier entity.Supplier, qty int, rate float64, date string) *entity.Purchase {
	cents := money.ToCents(rate)
	return &entity.Purchase{ItemID: item.ID, SupplierID: supplier.ID, Quantity: qty, Rate: cents,
		Total: money.LineTotal(qty, cents), Date: datetime.MustParseDate(date)}
}

func sale(item entity.Item, customer entity.Customer, qty int, rate float64, date string) *entity.Sale {
	cents := money.ToCents(rate)
	return &entity.Sale{ItemID: item.ID, CustomerID: customer.ID, Quantity: qty, Rate: cents,
		Total: money.LineTotal(qty, cents), Date: datetime.MustParseDate(date)}
}

func TestCustomerRepository_CRUDAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Zeta Store", "alpha mart", "Beta Mart"} {
		if err := repo.Create(ctx, &entity.Customer{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, total, err := repo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "MART")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("search total=%d len=%d, want 2", total, len(list))
	}

	all, _, _ := repo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 2}, "")
	if len(all) != 2 || all[0].Name != "Beta Mart" {
		t.Errorf("first page = %+v", all)
	}

	got, err := repo.GetByID(ctx, uuid.New())
	if err != nil || got != nil {
		t.Errorf("GetByID(missing) = %v, %v; want nil, nil", got, err)
	}

	got, _ = repo.GetByID(ctx, list[0].ID)
	got.Contact = strPtr("555-0100")
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, _ := repo.GetByID(ctx, got.ID)
	if reloaded.Contact == nil || *reloaded.Contact != "555-0100" {
		t.Errorf("contact not persisted: %+v", reloaded)
	}

	if err := repo.Delete(ctx, got.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 2 {
		t.Errorf("count after delete = %d", n)
	}
}

func TestCustomerRepository_SearchIsLiteral(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	for _, name := range []string{"100% Cotton", "Best_Buy", "BestXBuy", `Back\Slash`} {
		if err := repo.Create(ctx, &entity.Customer{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	page := &pagination.PaginationParams{Page: 1, PerPage: 10}
	for search, want := range map[string]int64{"%": 1, "_": 1, "t_B": 1, "tXb": 1, `\`: 1, "Best": 2} {
		_, total, err := repo.List(ctx, page, search)
		if err != nil {
			t.Fatalf("list %q: %v", search, err)
		}
		if total != want {
			t.Errorf("search %q matched %d, want %d", search, total, want)
		}
	}
}

func TestSupplierRepository_HasPurchasesAndForeignKey(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()
	suppliers := NewSupplierRepository(db)
	purchases := NewPurchaseRepository(db)

	if has, _ := suppliers.HasPurchases(ctx, f.suppliers[0].ID); has {
		t.Fatal("HasPurchases true before any purchase")
	}
	if err := purchases.Create(ctx, purchase(f.items[0], f.suppliers[0], 5, 2, "2024-01-01")); err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if has, _ := suppliers.HasPurchases(ctx, f.suppliers[0].ID); !has {
		t.Fatal("HasPurchases false after purchase")
	}
	if err := suppliers.Delete(ctx, f.suppliers[0].ID); err == nil {
		t.Error("deleting a referenced supplier succeeded")
	}
}

func TestItemRepository_FiltersAndCategories(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewItemRepository(db)
	ctx := context.Background()

	items, total, err := repo.List(ctx, &domainRepo.ItemFilterParams{Category: "Hardware"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || items[0].Name != "Gadget" {
		t.Errorf("hardware items = %+v", items)
	}

	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Hardware" || cats[1] != "Stationery" {
		t.Errorf("categories = %v", cats)
	}

	if has, _ := repo.HasTransactions(ctx, f.items[2].ID); has {
		t.Error("HasTransactions true for unused item")
	}
	_ = NewSaleRepository(db).Create(ctx, sale(f.items[2], f.customers[0], 1, 1, "2024-01-01"))
	if has, _ := repo.HasTransactions(ctx, f.items[2].ID); !has {
		t.Error("HasTransactions false after a sale")
	}
}

func TestPurchaseRepository_ListFiltersAndOrder(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	rows := []*entity.Purchase{
		purchase(f.items[0], f.suppliers[0], 10, 50, "2024-01-10"),
		purchase(f.items[1], f.suppliers[1], 4, 25, "2024-02-01"),
		purchase(f.items[0], f.suppliers[1], 6, 70, "2024-03-15"),
	}
	for _, p := range rows {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, total, err := repo.List(ctx, &domainRepo.TransactionFilterParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || all[0].Date.String() != "2024-03-15" {
		t.Fatalf("list order = %+v", all)
	}
	if all[0].Item == nil || all[0].Item.Name != "Widget" || all[0].Supplier == nil {
		t.Errorf("relations not preloaded: %+v", all[0])
	}

	bySearch, total, _ := repo.List(ctx, &domainRepo.TransactionFilterParams{Search: "bolt"})
	if total != 2 || len(bySearch) != 2 {
		t.Errorf("search by supplier name total = %d", total)
	}
	if _, total, _ := repo.List(ctx, &domainRepo.TransactionFilterParams{Search: "%"}); total != 0 {
		t.Errorf("search %%: total = %d, want 0", total)
	}

	start := datetime.MustParseDate("2024-01-10")
	end := datetime.MustParseDate("2024-02-01")
	byDate, total, _ := repo.List(ctx, &domainRepo.TransactionFilterParams{StartDate: &start, EndDate: &end})
	if total != 2 || len(byDate) != 2 {
		t.Errorf("inclusive range total = %d", total)
	}

	supplierID := f.suppliers[0].ID
	bySupplier, _, _ := repo.List(ctx, &domainRepo.TransactionFilterParams{PartyID: &supplierID})
	if len(bySupplier) != 1 {
		t.Errorf("by supplier = %d rows", len(bySupplier))
	}

	qty, _ := repo.TotalQuantityByItem(ctx, f.items[0].ID)
	if qty != 16 {
		t.Errorf("TotalQuantityByItem = %d, want 16", qty)
	}
	avg, _ := repo.AverageRateByItem(ctx, f.items[0].ID)
	if avg != 6000 {
		t.Errorf("AverageRateByItem = %v, want 6000", avg)
	}
	avg, _ = repo.AverageRateByItem(ctx, f.items[3].ID)
	if avg != 0 {
		t.Errorf("AverageRateByItem(no rows) = %v", avg)
	}
}

func TestSaleRepository_StockGuard(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	ctx := context.Background()
	purchases := NewPurchaseRepository(db)
	sales := NewSaleRepository(db)

	_ = purchases.Create(ctx, purchase(f.items[0], f.suppliers[0], 10, 5, "2024-01-01"))

	first := sale(f.items[0], f.customers[0], 7, 8, "2024-01-02")
	if err := sales.CreateWithinStock(ctx, first); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	second := sale(f.items[0], f.customers[1], 4, 8, "2024-01-03")
	if err := sales.CreateWithinStock(ctx, second); !errors.Is(err, domainRepo.ErrInsufficientStock) {
		t.Fatalf("oversell err = %v, want ErrInsufficientStock", err)
	}

	// Raising the existing sale to the full balance is allowed because its
	// own quantity is excluded from the check.
	first.Quantity = 10
	first.Total = money.LineTotal(10, first.Rate)
	if err := sales.UpdateWithinStock(ctx, first); err != nil {
		t.Fatalf("update within stock: %v", err)
	}
	first.Quantity = 11
	if err := sales.UpdateWithinStock(ctx, first); !errors.Is(err, domainRepo.ErrInsufficientStock) {
		t.Fatalf("update over stock err = %v", err)
	}

	// Without the guard the balance may go negative.
	if err := sales.Create(ctx, second); err != nil {
		t.Fatalf("unguarded create: %v", err)
	}
	sold, _ := sales.TotalQuantityByItem(ctx, f.items[0].ID)
	if sold != 14 {
		t.Errorf("sold = %d, want 14", sold)
	}
}

func TestIdempotencyRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	key := &entity.IdempotencyKey{Key: "abc", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201, ResponseBody: "{}"}
	key.ExpiresAt = time.Now().Add(time.Hour)
	if err := repo.Save(ctx, key); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetByKey(ctx, "abc", userID)
	if err != nil || got == nil || got.ResponseCode != 201 {
		t.Fatalf("GetByKey = %+v, %v", got, err)
	}
	if other, _ := repo.GetByKey(ctx, "abc", uuid.New()); other != nil {
		t.Error("key visible to another user")
	}

	expired := &entity.IdempotencyKey{Key: "old", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201,
		ExpiresAt: time.Now().Add(-time.Minute)}
	if err := repo.Save(ctx, expired); err != nil {
		t.Fatalf("create expired: %v", err)
	}
	n, err := repo.DeleteExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("DeleteExpired = %d, %v; want 1", n, err)
	}

	// Saving with the stored ID replaces the row instead of tripping the unique index.
	got.ResponseCode = 200
	got.ExpiresAt = time.Now().Add(time.Hour)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("resave: %v", err)
	}
	again, _ := repo.GetByKey(ctx, "abc", userID)
	if again == nil || again.ID != got.ID || again.ResponseCode != 200 {
		t.Errorf("after resave = %+v", again)
	}
}

func TestIdempotencyRepository_Claim(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	pending := func() *entity.IdempotencyKey {
		return &entity.IdempotencyKey{Key: "dbl", UserID: userID, Endpoint: "POST /api/v1/purchases",
			ExpiresAt: time.Now().Add(time.Minute)}
	}

	first := pending()
	if ok, err := repo.Claim(ctx, first); err != nil || !ok {
		t.Fatalf("first claim = %v, %v", ok, err)
	}
	if ok, err := repo.Claim(ctx, pending()); err != nil || ok {
		t.Errorf("second claim = %v, %v; want false", ok, err)
	}
	if held, _ := repo.GetByKey(ctx, "dbl", userID); held == nil || !held.IsPending() {
		t.Errorf("held = %+v, want pending", held)
	}

	if err := repo.Release(ctx, first.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := repo.Claim(ctx, pending()); err != nil || !ok {
		t.Errorf("claim after release = %v, %v", ok, err)
	}

	stale := &entity.IdempotencyKey{Key: "old", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201,
		ExpiresAt: time.Now().Add(-time.Minute)}
	if err := repo.Save(ctx, stale); err != nil {
		t.Fatalf("save stale: %v", err)
	}
	fresh := &entity.IdempotencyKey{Key: "old", UserID: userID, Endpoint: "POST /api/v1/sales",
		ExpiresAt: time.Now().Add(time.Minute)}
	if ok, err := repo.Claim(ctx, fresh); err != nil || !ok {
		t.Errorf("claim over expired row = %v, %v", ok, err)
	}
}
