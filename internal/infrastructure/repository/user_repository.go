package repository

import (
	"context"
	"strings"

	"github.com/erpdesk/erpdesk-api/internal/domain/entity"
	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return findByID[entity.User](ctx, r.db, id)
}

// GetByEmail matches case-insensitively; emails are stored lowercased but
// older rows may not be.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return findOne[entity.User](ctx, r.db, nil, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}

// List searches names and email, newest accounts first.
func (r *userRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{})
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		query = query.Where("first_name LIKE ?"+escapeLike+" OR last_name LIKE ?"+escapeLike+" OR email LIKE ?"+escapeLike, p, p, p)
	}
	return listPage[entity.User](query, params, "created_at DESC")
}

func (r *userRepository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where(&entity.User{Role: enum.RoleAdmin, Active: true}).
		Count(&n).Error
	return n, err
}
