package database

import (
	"path/filepath"
	"testing"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewSQLiteDB(&config.DatabaseConfig{Path: MemoryPath, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNewSQLiteDB_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "erp.db")
	db, err := NewSQLiteDB(&config.DatabaseConfig{Path: path, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	var fk int
	db.Raw("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestSeedDefaultData(t *testing.T) {
	db := openTestDB(t)
	admin := &config.AdminConfig{Email: "owner@shop.test", Password: "pa55word", FirstName: "Shop", LastName: "Owner"}

	if err := SeedDefaultData(db, admin); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Second run must not duplicate the user.
	if err := SeedDefaultData(db, admin); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var users []entity.User
	db.Find(&users)
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	if users[0].Role != enum.RoleAdmin || !utils.CheckPasswordHash("pa55word", users[0].Password) {
		t.Errorf("admin = %+v", users[0])
	}
}

func TestSeedDefaultData_NoPassword(t *testing.T) {
	db := openTestDB(t)
	if err := SeedDefaultData(db, &config.AdminConfig{Email: "x@y.z"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var count int64
	db.Model(&entity.User{}).Count(&count)
	if count != 0 {
		t.Errorf("users = %d, want 0", count)
	}
}

func TestSeedSampleData(t *testing.T) {
	db := openTestDB(t)
	if err := SeedSampleData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := SeedSampleData(db); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var items, purchases, sales int64
	db.Model(&entity.Item{}).Count(&items)
	db.Model(&entity.Purchase{}).Count(&purchases)
	db.Model(&entity.Sale{}).Count(&sales)
	if items != 5 || purchases != 5 || sales != 5 {
		t.Errorf("items=%d purchases=%d sales=%d", items, purchases, sales)
	}

	var laptop entity.Purchase
	db.Joins("JOIN items ON items.id = purchases.item_id").Where("items.name = ?", "Laptop Computer").First(&laptop)
	if laptop.Total != 650000 {
		t.Errorf("laptop purchase total = %d, want 650000", laptop.Total)
	}
}
