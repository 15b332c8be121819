package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"gorm.io/gorm"
)

// SeedDefaultData creates the configured administrator when no user with
// that email exists yet.
func SeedDefaultData(db *gorm.DB, admin *config.AdminConfig) error {
	log.Println("Seeding default data...")

	if admin.Email == "" || admin.Password == "" {
		log.Println("Warning: ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		log.Printf("Admin user already exists: %s", admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := entity.User{
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Email:     admin.Email,
		Password:  hashed,
		Role:      enum.RoleAdmin,
		Active:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Admin user created: %s", admin.Email)
	return nil
}

func strPtr(s string) *string {
	return &s
}

// SeedSampleData loads a small demonstration data set into an empty
// database. It does nothing once any item exists.
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Sample data skipped: items already present")
		return nil
	}

	suppliers := []entity.Supplier{
		{Name: "ABC Electronics Ltd", Contact: strPtr("+1-555-0101"), Address: strPtr("123 Tech Street, Silicon Valley")},
		{Name: "Global Supplies Co", Contact: strPtr("+1-555-0102"), Address: strPtr("456 Commerce Ave, New York")},
		{Name: "Office Depot Wholesale", Contact: strPtr("+1-555-0103"), Address: strPtr("789 Business Blvd, Chicago")},
	}
	customers := []entity.Customer{
		{Name: "Retail Store One", Contact: strPtr("+1-555-0201"), Address: strPtr("12 Main Street, Boston")},
		{Name: "Tech Solutions Inc", Contact: strPtr("+1-555-0202"), Address: strPtr("34 Innovation Drive, Austin")},
		{Name: "City Office Mart", Contact: strPtr("+1-555-0203"), Address: strPtr("56 Market Square, Denver")},
	}
	items := []entity.Item{
		{Name: "Laptop Computer", Category: strPtr("Electronics")},
		{Name: "Wireless Mouse", Category: strPtr("Electronics")},
		{Name: "Office Chair", Category: strPtr("Furniture")},
		{Name: "A4 Paper Ream", Category: strPtr("Stationery")},
		{Name: "Ballpoint Pens (Box)", Category: strPtr("Stationery")},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&suppliers).Error; err != nil {
			return err
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		purchases := []entity.Purchase{
			samplePurchase(items[0], suppliers[0], 10, 650.00, "2024-01-05"),
			samplePurchase(items[1], suppliers[0], 50, 12.50, "2024-01-08"),
			samplePurchase(items[2], suppliers[1], 8, 120.00, "2024-02-10"),
			samplePurchase(items[3], suppliers[2], 100, 4.25, "2024-02-15"),
			samplePurchase(items[4], suppliers[2], 40, 3.10, "2024-03-01"),
		}
		sales := []entity.Sale{
			sampleSale(items[0], customers[1], 6, 899.99, "2024-01-20"),
			sampleSale(items[1], customers[0], 45, 19.99, "2024-02-02"),
			sampleSale(items[2], customers[2], 3, 189.00, "2024-02-25"),
			sampleSale(items[3], customers[2], 100, 6.50, "2024-03-10"),
			sampleSale(items[4], customers[0], 12, 5.75, "2024-03-18"),
		}
		if err := tx.Create(&purchases).Error; err != nil {
			return err
		}
		if err := tx.Create(&sales).Error; err != nil {
			return err
		}

		log.Printf("Sample data created: %d suppliers, %d customers, %d items, %d purchases, %d sales",
			len(suppliers), len(customers), len(items), len(purchases), len(sales))
		return nil
	})
}

func samplePurchase(item entity.Item, supplier entity.Supplier, qty int, rate float64, date string) entity.Purchase {
	cents := money.ToCents(rate)
	return entity.Purchase{
		ItemID:     item.ID,
		SupplierID: supplier.ID,
		Quantity:   qty,
		Rate:       cents,
		Total:      money.LineTotal(qty, cents),
		Date:       datetime.MustParseDate(date),
	}
}

func sampleSale(item entity.Item, customer entity.Customer, qty int, rate float64, date string) entity.Sale {
	cents := money.ToCents(rate)
	return entity.Sale{
		ItemID:     item.ID,
		CustomerID: customer.ID,
		Quantity:   qty,
		Rate:       cents,
		Total:      money.LineTotal(qty, cents),
		Date:       datetime.MustParseDate(date),
	}
}
