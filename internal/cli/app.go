package cli

import (
	"database/sql"
	"fmt"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/config"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/internal/infrastructure/database"
	"github.com/erpdesk/erpdesk-api/internal/infrastructure/repository"
	"github.com/erpdesk/erpdesk-api/internal/scheduler"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"gorm.io/gorm"
)

// app wires repositories and services over one database connection
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	sqlDB *sql.DB

	userRepo        domainRepo.UserRepository
	supplierRepo    domainRepo.SupplierRepository
	customerRepo    domainRepo.CustomerRepository
	itemRepo        domainRepo.ItemRepository
	purchaseRepo    domainRepo.PurchaseRepository
	saleRepo        domainRepo.SaleRepository
	reportRepo      domainRepo.ReportRepository
	idempotencyRepo domainRepo.IdempotencyRepository

	jwtManager *utils.JWTManager

	authService      *service.AuthService
	userService      *service.UserService
	supplierService  *service.SupplierService
	customerService  *service.CustomerService
	itemService      *service.ItemService
	purchaseService  *service.PurchaseService
	saleService      *service.SaleService
	inventoryService *service.InventoryService
	financeService   *service.FinanceService
	dashboardService *service.DashboardService
	backupService    *service.BackupService
}

// openApp connects to the database, migrates it and builds every service
func openApp(cfg *config.Config) (*app, error) {
	db, err := database.NewSQLiteDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	reportRepo, err := repository.NewReportRepository(db)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	a := &app{
		cfg:             cfg,
		db:              db,
		sqlDB:           sqlDB,
		userRepo:        repository.NewUserRepository(db),
		supplierRepo:    repository.NewSupplierRepository(db),
		customerRepo:    repository.NewCustomerRepository(db),
		itemRepo:        repository.NewItemRepository(db),
		purchaseRepo:    repository.NewPurchaseRepository(db),
		saleRepo:        repository.NewSaleRepository(db),
		reportRepo:      reportRepo,
		idempotencyRepo: repository.NewIdempotencyRepository(db),
		jwtManager: utils.NewJWTManager(
			cfg.JWT.Secret,
			cfg.JWT.Issuer,
			cfg.JWT.ExpiryHours,
			cfg.JWT.RefreshExpiryHours,
		),
	}

	a.authService = service.NewAuthService(a.userRepo, a.jwtManager)
	a.userService = service.NewUserService(a.userRepo)
	a.supplierService = service.NewSupplierService(a.supplierRepo)
	a.customerService = service.NewCustomerService(a.customerRepo)
	a.itemService = service.NewItemService(a.itemRepo)
	a.purchaseService = service.NewPurchaseService(a.purchaseRepo, a.itemRepo, a.supplierRepo)
	a.saleService = service.NewSaleService(a.saleRepo, a.itemRepo, a.customerRepo, cfg.Inventory.EnforceStock)
	a.inventoryService = service.NewInventoryService(a.reportRepo, cfg.Inventory.LowStockThreshold)
	a.financeService = service.NewFinanceService(a.reportRepo)
	a.dashboardService = service.NewDashboardService(a.financeService, a.inventoryService, a.customerRepo, a.supplierRepo, a.itemRepo)
	a.backupService = service.NewBackupService(repository.NewMaintenanceRepository(db), cfg.Backup.Dir, cfg.Backup.Keep)

	return a, nil
}

// newScheduler builds the housekeeping jobs from config
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(jobTimeout,
		scheduler.BackupJob(a.cfg.Backup.Schedule, a.backupService),
		scheduler.IdempotencyCleanupJob(a.cfg.Jobs.IdempotencyCleanupSchedule, a.idempotencyRepo),
		scheduler.LowStockReportJob(a.cfg.Jobs.LowStockReportSchedule, a.inventoryService),
	)
}

func (a *app) Close() error {
	return a.sqlDB.Close()
}
