package service

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
)

// ItemService handles item-related operations
type ItemService struct {
	itemRepo repository.ItemRepository
}

// NewItemService creates a new item service
func NewItemService(itemRepo repository.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	Name     string
	Category *string
}

// CreateItem creates a new item
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.Item, error) {
	var errs apperror.FieldErrors
	item := &entity.Item{
		Name:     requireName(&errs, "name", input.Name),
		Category: optionalText(&errs, "category", input.Category, maxNameLength),
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// ListItems lists items matching the name search and optional category
func (s *ItemService) ListItems(ctx context.Context, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.Item], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ListCategories returns the distinct item categories
func (s *ItemService) ListCategories(ctx context.Context) ([]string, error) {
	return s.itemRepo.ListCategories(ctx)
}

// CountItems returns the number of items
func (s *ItemService) CountItems(ctx context.Context) (int64, error) {
	return s.itemRepo.Count(ctx)
}

// UpdateItemInput represents the update item input. Nil fields are left unchanged.
type UpdateItemInput struct {
	ID       uuid.UUID
	Name     *string
	Category *string
}

// UpdateItem updates an item
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Item, error) {
	item, err := s.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var errs apperror.FieldErrors
	if input.Name != nil {
		item.Name = requireName(&errs, "name", *input.Name)
	}
	if input.Category != nil {
		item.Category = optionalText(&errs, "category", input.Category, maxNameLength)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem deletes an item that no purchase or sale references
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	used, err := s.itemRepo.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewConflictError("Item has recorded purchases or sales and cannot be deleted")
	}

	return s.itemRepo.Delete(ctx, id)
}
