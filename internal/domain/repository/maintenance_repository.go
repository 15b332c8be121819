package repository

import "context"

// MaintenanceRepository covers database housekeeping
type MaintenanceRepository interface {
	// BackupTo writes a consistent copy of the database to path, which must not exist.
	BackupTo(ctx context.Context, path string) error
}
