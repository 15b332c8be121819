package service

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Contact *string
	Address *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	var errs apperror.FieldErrors
	customer := &entity.Customer{
		Name:    requireName(&errs, "name", input.Name),
		Contact: optionalText(&errs, "contact", input.Contact, maxContactLength),
		Address: optionalText(&errs, "address", input.Address, 0),
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers whose name contains search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// CountCustomers returns the number of customers
func (s *CustomerService) CountCustomers(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

// UpdateCustomerInput represents the update customer input. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Contact *string
	Address *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var errs apperror.FieldErrors
	if input.Name != nil {
		customer.Name = requireName(&errs, "name", *input.Name)
	}
	if input.Contact != nil {
		customer.Contact = optionalText(&errs, "contact", input.Contact, maxContactLength)
	}
	if input.Address != nil {
		customer.Address = optionalText(&errs, "address", input.Address, 0)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer that has no sales
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	hasSales, err := s.customerRepo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if hasSales {
		return apperror.NewConflictError("Customer has recorded sales and cannot be deleted")
	}

	return s.customerRepo.Delete(ctx, id)
}

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	Name    string
	Contact *string
	Address *string
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	var errs apperror.FieldErrors
	supplier := &entity.Supplier{
		Name:    requireName(&errs, "name", input.Name),
		Contact: optionalText(&errs, "contact", input.Contact, maxContactLength),
		Address: optionalText(&errs, "address", input.Address, 0),
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers whose name contains search
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	params.Validate()
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// CountSuppliers returns the number of suppliers
func (s *SupplierService) CountSuppliers(ctx context.Context) (int64, error) {
	return s.supplierRepo.Count(ctx)
}

// UpdateSupplierInput represents the update supplier input. Nil fields are left unchanged.
type UpdateSupplierInput struct {
	ID      uuid.UUID
	Name    *string
	Contact *string
	Address *string
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var errs apperror.FieldErrors
	if input.Name != nil {
		supplier.Name = requireName(&errs, "name", *input.Name)
	}
	if input.Contact != nil {
		supplier.Contact = optionalText(&errs, "contact", input.Contact, maxContactLength)
	}
	if input.Address != nil {
		supplier.Address = optionalText(&errs, "address", input.Address, 0)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier deletes a supplier that has no purchases
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}

	hasPurchases, err := s.supplierRepo.HasPurchases(ctx, id)
	if err != nil {
		return err
	}
	if hasPurchases {
		return apperror.NewConflictError("Supplier has recorded purchases and cannot be deleted")
	}

	return s.supplierRepo.Delete(ctx, id)
}
