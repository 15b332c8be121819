package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findOne returns the first row matching where, or nil, nil when there is none.
func findOne[T any](ctx context.Context, db *gorm.DB, preload []string, where string, args ...interface{}) (*T, error) {
	q := db.WithContext(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	var rows []T
	if err := q.Where(where, args...).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func findByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, preload ...string) (*T, error) {
	return findOne[T](ctx, db, preload, "id = ?", id)
}

// listPage counts everything query matches, then loads one ordered page.
func listPage[T any](query *gorm.DB, params *pagination.PaginationParams, order string, preload ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := query.Scopes(Paginate(params)).Order(order)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	var rows []T
	err := q.Find(&rows).Error
	return rows, total, err
}

func countRows[T any](ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

// referenced reports whether any row of table points at id through column.
func referenced(ctx context.Context, db *gorm.DB, table, column string, id uuid.UUID) (bool, error) {
	var found bool
	err := db.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM "+table+" WHERE "+column+" = ?)", id).
		Scan(&found).Error
	return found, err
}
