package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepository) CreateWithinStock(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureStock(tx, sale, nil); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(sale).Error
	})
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return findByID[entity.Sale](ctx, r.db, id, "Item", "Customer")
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

func (r *saleRepository) UpdateWithinStock(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureStock(tx, sale, &sale.ID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(sale).Error
	})
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(transactionFilter(params, "customers", "customer_id"))
	return listPage[entity.Sale](query, params.Pagination, "date DESC, created_at DESC", "Item", "Customer")
}

func (r *saleRepository) TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepository) AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(AVG(rate), 0)").
		Scan(&avg).Error
	return avg, err
}

// ensureStock fails with ErrInsufficientStock when the item's balance,
// excluding the sale being replaced, cannot cover sale.Quantity.
func ensureStock(tx *gorm.DB, sale *entity.Sale, replacing *uuid.UUID) error {
	var purchased, sold int64
	if err := tx.Model(&entity.Purchase{}).
		Where("item_id = ?", sale.ItemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&purchased).Error; err != nil {
		return err
	}

	soldQuery := tx.Model(&entity.Sale{}).Where("item_id = ?", sale.ItemID)
	if replacing != nil {
		soldQuery = soldQuery.Where("id <> ?", *replacing)
	}
	if err := soldQuery.Select("COALESCE(SUM(quantity), 0)").Scan(&sold).Error; err != nil {
		return err
	}

	if int64(sale.Quantity) > purchased-sold {
		return domainRepo.ErrInsufficientStock
	}
	return nil
}
