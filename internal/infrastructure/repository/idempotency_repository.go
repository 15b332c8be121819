package repository

import (
	"context"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// idempotencyRepository keeps replayable transaction responses in the same
// SQLite file as the transactions themselves.
type idempotencyRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db, now: time.Now}
}

// GetByKey uses Find rather than First so a miss is not logged as an error.
func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var keys []entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where(&entity.IdempotencyKey{Key: key, UserID: userID}).
		Limit(1).
		Find(&keys).Error
	if err != nil || len(keys) == 0 {
		return nil, err
	}
	return &keys[0], nil
}

// Claim clears an expired row for the same key and inserts ikey in one
// transaction. The unique (user, key) index decides concurrent claims.
func (r *idempotencyRepository) Claim(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	claimed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("`key` = ? AND user_id = ? AND expires_at <= ?", ikey.Key, ikey.UserID, r.now()).
			Delete(&entity.IdempotencyKey{}).Error
		if err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(ikey)
		claimed = res.RowsAffected == 1
		return res.Error
	})
	return claimed, err
}

func (r *idempotencyRepository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.IdempotencyKey{}, "id = ?", id).Error
}

func (r *idempotencyRepository) Save(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).Save(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", r.now()).
		Delete(&entity.IdempotencyKey{})
	return res.RowsAffected, res.Error
}
