package scheduler

import (
	"context"
	"log"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
)

// Job names accepted by the CLI
const (
	JobBackup             = "backup"
	JobIdempotencyCleanup = "idempotency-cleanup"
	JobLowStockReport     = "low-stock-report"
)

// BackupJob snapshots the database
func BackupJob(schedule string, backups *service.BackupService) Job {
	return Job{
		Name:     JobBackup,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			file, err := backups.Run(ctx)
			if err != nil {
				return err
			}
			log.Printf("backup written to %s (%d bytes)", file.Path, file.Size)
			return nil
		},
	}
}

// IdempotencyCleanupJob removes expired idempotency keys
func IdempotencyCleanupJob(schedule string, repo repository.IdempotencyRepository) Job {
	return Job{
		Name:     JobIdempotencyCleanup,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if removed > 0 {
				log.Printf("removed %d expired idempotency keys", removed)
			}
			return nil
		},
	}
}

// LowStockReportJob logs every item at or below the low-stock threshold
func LowStockReportJob(schedule string, inventory *service.InventoryService) Job {
	return Job{
		Name:     JobLowStockReport,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			items, err := inventory.LowStock(ctx, inventory.LowStockThreshold())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				log.Printf("low stock: no items at or below %d", inventory.LowStockThreshold())
				return nil
			}
			for _, item := range items {
				log.Printf("low stock: %s balance=%d", item.ItemName, item.BalanceQuantity)
			}
			return nil
		},
	}
}
