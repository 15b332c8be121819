package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return findByID[entity.Item](ctx, r.db, id)
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Item{}).Scopes(NameContains(params.Search))
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	return listPage[entity.Item](query, params.Pagination, "name ASC")
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	return countRows[entity.Item](ctx, r.db)
}

func (r *itemRepository) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&entity.Item{}).
		Where("category IS NOT NULL AND TRIM(category) <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *itemRepository) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, table := range []string{"purchases", "sales"} {
		found, err := referenced(ctx, r.db, table, "item_id", id)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}
