package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	return findByID[entity.Purchase](ctx, r.db, id, "Item", "Supplier")
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(purchase).Error
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Purchase{}, "id = ?", id).Error
}

func (r *purchaseRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Scopes(transactionFilter(params, "suppliers", "supplier_id"))
	return listPage[entity.Purchase](query, params.Pagination, "date DESC, created_at DESC", "Item", "Supplier")
}

func (r *purchaseRepository) TotalQuantityByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *purchaseRepository) AverageRateByItem(ctx context.Context, itemID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(AVG(rate), 0)").
		Scan(&avg).Error
	return avg, err
}

// transactionFilter applies the list filters shared by purchases and sales.
// partyTable and partyColumn name the supplier or customer side.
func transactionFilter(params *domainRepo.TransactionFilterParams, partyTable, partyColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.Search != "" {
			pattern := likePattern(params.Search)
			db = db.Where(
				"item_id IN (SELECT id FROM items WHERE name LIKE ?"+escapeLike+") OR "+
					partyColumn+" IN (SELECT id FROM "+partyTable+" WHERE name LIKE ?"+escapeLike+")",
				pattern, pattern,
			)
		}
		if params.ItemID != nil {
			db = db.Where("item_id = ?", *params.ItemID)
		}
		if params.PartyID != nil {
			db = db.Where(partyColumn+" = ?", *params.PartyID)
		}
		return db.Scopes(DateBetween("date", params.StartDate, params.EndDate))
	}
}
