package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customers and suppliers share a table shape and differ only in which
// transactions reference them.

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return findByID[entity.Customer](ctx, r.db, id)
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(NameContains(search))
	return listPage[entity.Customer](query, params, "name ASC")
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	return countRows[entity.Customer](ctx, r.db)
}

func (r *customerRepository) HasSales(ctx context.Context, id uuid.UUID) (bool, error) {
	return referenced(ctx, r.db, "sales", "customer_id", id)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) domainRepo.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	return findByID[entity.Supplier](ctx, r.db, id)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Supplier{}, "id = ?", id).Error
}

func (r *supplierRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).Scopes(NameContains(search))
	return listPage[entity.Supplier](query, params, "name ASC")
}

func (r *supplierRepository) Count(ctx context.Context) (int64, error) {
	return countRows[entity.Supplier](ctx, r.db)
}

func (r *supplierRepository) HasPurchases(ctx context.Context, id uuid.UUID) (bool, error) {
	return referenced(ctx, r.db, "purchases", "supplier_id", id)
}
