package repository

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository stores the responses of transaction POSTs per user
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the user never sent key.
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Claim inserts ikey unless a live row holds the same (user, key). It
	// reports false when another request got there first.
	Claim(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Save inserts ikey, or overwrites the stored row when ID is set.
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a claim so the key can be retried.
	Release(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
