package repository

import (
	"context"
	"fmt"

	domainRepo "github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository wraps the connection pool behind db in sqlx for the
// hand-written aggregation queries.
func NewReportRepository(db *gorm.DB) (domainRepo.ReportRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &reportRepository{db: sqlx.NewDb(sqlDB, "sqlite3")}, nil
}

const itemStockQuery = `
	SELECT
		i.id AS item_id,
		i.name AS item_name,
		i.category AS category,
		COALESCE(p.qty, 0) AS purchased_qty,
		COALESCE(s.qty, 0) AS sold_qty,
		COALESCE(p.avg_rate, 0.0) AS avg_purchase_rate,
		COALESCE(s.avg_rate, 0.0) AS avg_sales_rate
	FROM items AS i
	LEFT JOIN (
		SELECT item_id, SUM(quantity) AS qty, AVG(rate) AS avg_rate
		FROM purchases GROUP BY item_id
	) AS p ON p.item_id = i.id
	LEFT JOIN (
		SELECT item_id, SUM(quantity) AS qty, AVG(rate) AS avg_rate
		FROM sales GROUP BY item_id
	) AS s ON s.item_id = i.id
`

func (r *reportRepository) ItemStock(ctx context.Context, itemID *uuid.UUID) ([]domainRepo.ItemStockRow, error) {
	rows := []domainRepo.ItemStockRow{}
	var err error
	if itemID != nil {
		err = r.db.SelectContext(ctx, &rows, itemStockQuery+` WHERE i.id = ? ORDER BY i.name`, *itemID)
	} else {
		err = r.db.SelectContext(ctx, &rows, itemStockQuery+` ORDER BY i.name`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate item stock: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) SalesTotal(ctx context.Context, start, end *datetime.Date) (int64, error) {
	return r.sumTotal(ctx, "sales", start, end)
}

func (r *reportRepository) PurchasesTotal(ctx context.Context, start, end *datetime.Date) (int64, error) {
	return r.sumTotal(ctx, "purchases", start, end)
}

func (r *reportRepository) sumTotal(ctx context.Context, table string, start, end *datetime.Date) (int64, error) {
	query := `SELECT COALESCE(SUM(total), 0) FROM ` + table + ` WHERE 1 = 1`
	var args []interface{}
	if start != nil && !start.IsZero() {
		query += ` AND date >= ?`
		args = append(args, start.String())
	}
	if end != nil && !end.IsZero() {
		query += ` AND date <= ?`
		args = append(args, end.String())
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", table, err)
	}
	return total, nil
}

func (r *reportRepository) TopCustomers(ctx context.Context, limit int) ([]domainRepo.TopCustomerRow, error) {
	const q = `
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			COUNT(s.id) AS sale_count,
			COALESCE(SUM(s.total), 0) AS total_sales
		FROM customers AS c
		LEFT JOIN sales AS s ON s.customer_id = c.id
		GROUP BY c.id, c.name
		ORDER BY total_sales DESC, c.name ASC
		LIMIT ?
	`
	rows := []domainRepo.TopCustomerRow{}
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) TopItems(ctx context.Context, limit int) ([]domainRepo.TopItemRow, error) {
	const q = `
		SELECT
			i.id AS item_id,
			i.name AS item_name,
			COALESCE(SUM(s.quantity), 0) AS total_quantity,
			COALESCE(SUM(s.total), 0) AS total_sales
		FROM items AS i
		LEFT JOIN sales AS s ON s.item_id = i.id
		GROUP BY i.id, i.name
		ORDER BY total_quantity DESC, i.name ASC
		LIMIT ?
	`
	rows := []domainRepo.TopItemRow{}
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("failed to rank items: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) Monthly(ctx context.Context, year int) ([]domainRepo.MonthlyRow, error) {
	const q = `
		SELECT
			CAST(m.month AS INTEGER) AS month,
			SUM(m.sales) AS sales,
			SUM(m.purchases) AS purchases
		FROM (
			SELECT strftime('%m', date) AS month, total AS sales, 0 AS purchases
			FROM sales WHERE strftime('%Y', date) = ?
			UNION ALL
			SELECT strftime('%m', date) AS month, 0 AS sales, total AS purchases
			FROM purchases WHERE strftime('%Y', date) = ?
		) AS m
		GROUP BY m.month
		ORDER BY m.month
	`
	yearText := fmt.Sprintf("%04d", year)
	rows := []domainRepo.MonthlyRow{}
	if err := r.db.SelectContext(ctx, &rows, q, yearText, yearText); err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly totals: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
