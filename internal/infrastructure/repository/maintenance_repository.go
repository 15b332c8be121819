package repository

import (
	"context"

	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *gorm.DB) domainRepo.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

// BackupTo uses VACUUM INTO, which copies a live database without blocking writers for long.
func (r *maintenanceRepository) BackupTo(ctx context.Context, path string) error {
	return r.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error
}
