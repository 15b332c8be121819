package service

import (
	"context"

	"github.com/erpdesk/erpdesk-api/internal/domain/repository"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/erpdesk/erpdesk-api/pkg/money"
	"github.com/google/uuid"
)

const (
	defaultTopLimit = 5
	maxTopLimit     = 100
)

// FinanceService reports money in, money out and profit
type FinanceService struct {
	reportRepo repository.ReportRepository
}

// NewFinanceService creates a new finance service
func NewFinanceService(reportRepo repository.ReportRepository) *FinanceService {
	return &FinanceService{reportRepo: reportRepo}
}

// FinancialSummary covers an inclusive date range
type FinancialSummary struct {
	StartDate     datetime.Date `json:"start_date"`
	EndDate       datetime.Date `json:"end_date"`
	SalesRevenue  float64       `json:"sales_revenue"`
	PurchaseCosts float64       `json:"purchase_costs"`
	Profit        float64       `json:"profit"`
}

// Totals are the all-time money figures
type Totals struct {
	MoneyIn        float64 `json:"money_in"`
	MoneyOut       float64 `json:"money_out"`
	Profit         float64 `json:"profit"`
	CurrentBalance float64 `json:"current_balance"`
}

// TopCustomer is a customer ranked by total sales
type TopCustomer struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	SaleCount    int64     `json:"sale_count"`
	TotalSales   float64   `json:"total_sales"`
}

// TopItem is an item ranked by quantity sold
type TopItem struct {
	ItemID        uuid.UUID `json:"item_id"`
	ItemName      string    `json:"item_name"`
	TotalQuantity int64     `json:"total_quantity"`
	TotalSales    float64   `json:"total_sales"`
}

// MonthlyPoint holds one month of a year's series
type MonthlyPoint struct {
	Month     int     `json:"month"`
	Label     string  `json:"label"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
	Profit    float64 `json:"profit"`
}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TotalMoneyIn sums every sale
func (s *FinanceService) TotalMoneyIn(ctx context.Context) (float64, error) {
	cents, err := s.reportRepo.SalesTotal(ctx, nil, nil)
	if err != nil {
		return 0, err
	}
	return money.FromCents(cents), nil
}

// TotalMoneyOut sums every purchase
func (s *FinanceService) TotalMoneyOut(ctx context.Context) (float64, error) {
	cents, err := s.reportRepo.PurchasesTotal(ctx, nil, nil)
	if err != nil {
		return 0, err
	}
	return money.FromCents(cents), nil
}

// TotalProfit is money in minus money out
func (s *FinanceService) TotalProfit(ctx context.Context) (float64, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return 0, err
	}
	return totals.Profit, nil
}

// CurrentBalance equals total profit; there is no opening balance
func (s *FinanceService) CurrentBalance(ctx context.Context) (float64, error) {
	return s.TotalProfit(ctx)
}

// Totals returns money in, money out, profit and balance in one call
func (s *FinanceService) Totals(ctx context.Context) (*Totals, error) {
	in, err := s.reportRepo.SalesTotal(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := s.reportRepo.PurchasesTotal(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	profit := money.FromCents(in - out)
	return &Totals{
		MoneyIn:        money.FromCents(in),
		MoneyOut:       money.FromCents(out),
		Profit:         profit,
		CurrentBalance: profit,
	}, nil
}

// Summary reports revenue, costs and profit between start and end inclusive
func (s *FinanceService) Summary(ctx context.Context, start, end datetime.Date) (*FinancialSummary, error) {
	var errs apperror.FieldErrors
	if start.IsZero() {
		errs.Add("start_date", "is required")
	}
	if end.IsZero() {
		errs.Add("end_date", "is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if err := checkDateRange(&start, &end); err != nil {
		return nil, err
	}

	in, err := s.reportRepo.SalesTotal(ctx, &start, &end)
	if err != nil {
		return nil, err
	}
	out, err := s.reportRepo.PurchasesTotal(ctx, &start, &end)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		StartDate:     start,
		EndDate:       end,
		SalesRevenue:  money.FromCents(in),
		PurchaseCosts: money.FromCents(out),
		Profit:        money.FromCents(in - out),
	}, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

// TopCustomers ranks customers by total sales, including those without any
func (s *FinanceService) TopCustomers(ctx context.Context, limit int) ([]TopCustomer, error) {
	rows, err := s.reportRepo.TopCustomers(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	result := make([]TopCustomer, 0, len(rows))
	for _, row := range rows {
		result = append(result, TopCustomer{
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			SaleCount:    row.SaleCount,
			TotalSales:   money.FromCents(row.TotalSales),
		})
	}
	return result, nil
}

// TopItems ranks items by quantity sold, including unsold items
func (s *FinanceService) TopItems(ctx context.Context, limit int) ([]TopItem, error) {
	rows, err := s.reportRepo.TopItems(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	result := make([]TopItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, TopItem{
			ItemID:        row.ItemID,
			ItemName:      row.ItemName,
			TotalQuantity: row.TotalQuantity,
			TotalSales:    money.FromCents(row.TotalSales),
		})
	}
	return result, nil
}

// MonthlyData returns twelve points, January first, zero-filled for quiet months
func (s *FinanceService) MonthlyData(ctx context.Context, year int) ([]MonthlyPoint, error) {
	if year < 1 || year > 9999 {
		return nil, apperror.NewBadRequestError("year must be between 1 and 9999")
	}

	rows, err := s.reportRepo.Monthly(ctx, year)
	if err != nil {
		return nil, err
	}

	points := make([]MonthlyPoint, 12)
	for i := range points {
		points[i] = MonthlyPoint{Month: i + 1, Label: monthLabels[i]}
	}
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		p := &points[row.Month-1]
		p.Sales = money.FromCents(row.Sales)
		p.Purchases = money.FromCents(row.Purchases)
		p.Profit = money.FromCents(row.Sales - row.Purchases)
	}
	return points, nil
}
