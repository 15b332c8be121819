package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/application/service"
	"github.com/erpdesk/erpdesk-api/pkg/datetime"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type reportOptions struct {
	lang   string
	format string
}

// printer formats amounts with the locale's digit grouping
func (o *reportOptions) printer() (*message.Printer, error) {
	tag, err := language.Parse(o.lang)
	if err != nil {
		return nil, fmt.Errorf("invalid --lang %q: %w", o.lang, err)
	}
	return message.NewPrinter(tag), nil
}

func newReportCommand(opts *rootOptions) *cobra.Command {
	ropts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print inventory and finance reports",
	}
	cmd.PersistentFlags().StringVar(&ropts.lang, "lang", "en", "locale used to format numbers")
	cmd.PersistentFlags().StringVar(&ropts.format, "format", "table", "output format: table or csv")

	cmd.AddCommand(newInventoryReportCommand(opts, ropts), newFinanceReportCommand(opts, ropts))
	return cmd
}

func newInventoryReportCommand(opts *rootOptions, ropts *reportOptions) *cobra.Command {
	var lowOnly bool

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Stock balance and valuation per item",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ropts.printer()
			if err != nil {
				return err
			}
			a, err := openApp(opts.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var items []service.InventoryItem
			if lowOnly {
				items, err = a.inventoryService.LowStock(ctx, a.inventoryService.LowStockThreshold())
			} else {
				items, err = a.inventoryService.CalculateInventory(ctx)
			}
			if err != nil {
				return err
			}

			if ropts.format == "csv" {
				return writeInventoryCSV(cmd.OutOrStdout(), items)
			}

			summary, err := a.inventoryService.Summary(ctx)
			if err != nil {
				return err
			}
			writeInventoryTable(cmd.OutOrStdout(), p, items, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&lowOnly, "low", false, "only items at or below the low-stock threshold")
	return cmd
}

func writeInventoryTable(out io.Writer, p *message.Printer, items []service.InventoryItem, summary *service.InventorySummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Item\tCategory\tPurchased\tSold\tBalance\tPurchase value\tSales value\t")
	for _, item := range items {
		category := ""
		if item.Category != nil {
			category = *item.Category
		}
		fmt.Fprint(w, p.Sprintf("%s\t%s\t%d\t%d\t%d\t%.2f\t%.2f\t\n",
			item.ItemName, category,
			item.PurchasedQuantity, item.SoldQuantity, item.BalanceQuantity,
			item.PurchaseValue, item.SalesValue))
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprint(out, p.Sprintf("Items: %d  In stock: %d  Out of stock: %d  Low (<= %d): %d\n",
		summary.TotalItems, summary.InStockItems, summary.OutOfStockItems, summary.LowStockThreshold, summary.LowStockItems))
	fmt.Fprint(out, p.Sprintf("Purchase value: %.2f  Sales value: %.2f  Potential profit: %.2f\n",
		summary.TotalPurchaseValue, summary.TotalSalesValue, summary.PotentialProfit))
}

func writeInventoryCSV(out io.Writer, items []service.InventoryItem) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"item_id", "item_name", "category", "purchased", "sold", "balance", "purchase_rate", "sales_rate", "purchase_value", "sales_value"}); err != nil {
		return err
	}
	for _, item := range items {
		category := ""
		if item.Category != nil {
			category = *item.Category
		}
		record := []string{
			item.ItemID.String(),
			item.ItemName,
			category,
			strconv.FormatInt(item.PurchasedQuantity, 10),
			strconv.FormatInt(item.SoldQuantity, 10),
			strconv.FormatInt(item.BalanceQuantity, 10),
			strconv.FormatFloat(item.PurchaseRate, 'f', 2, 64),
			strconv.FormatFloat(item.SalesRate, 'f', 2, 64),
			strconv.FormatFloat(item.PurchaseValue, 'f', 2, 64),
			strconv.FormatFloat(item.SalesValue, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func newFinanceReportCommand(opts *rootOptions, ropts *reportOptions) *cobra.Command {
	var from, to string
	var year int

	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Money in, money out and profit, with a monthly breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ropts.printer()
			if err != nil {
				return err
			}
			a, err := openApp(opts.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if from != "" || to != "" {
				start, err := datetime.ParseDate(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				end, err := datetime.ParseDate(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				summary, err := a.financeService.Summary(ctx, start, end)
				if err != nil {
					return err
				}
				fmt.Fprint(out, p.Sprintf("%s to %s\nRevenue: %.2f\nCosts: %.2f\nProfit: %.2f\n",
					start, end, summary.SalesRevenue, summary.PurchaseCosts, summary.Profit))
				return nil
			}

			totals, err := a.financeService.Totals(ctx)
			if err != nil {
				return err
			}
			months, err := a.financeService.MonthlyData(ctx, year)
			if err != nil {
				return err
			}

			if ropts.format == "csv" {
				return writeMonthlyCSV(out, months)
			}

			fmt.Fprint(out, p.Sprintf("Money in: %.2f\nMoney out: %.2f\nProfit: %.2f\n\n",
				totals.MoneyIn, totals.MoneyOut, totals.Profit))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%d\tSales\tPurchases\tProfit\t\n", year)
			for _, m := range months {
				fmt.Fprint(w, p.Sprintf("%s\t%.2f\t%.2f\t%.2f\t\n", m.Label, m.Sales, m.Purchases, m.Profit))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD), inclusive")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year for the monthly breakdown")
	return cmd
}

func writeMonthlyCSV(out io.Writer, months []service.MonthlyPoint) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"month", "label", "sales", "purchases", "profit"}); err != nil {
		return err
	}
	for _, m := range months {
		if err := w.Write([]string{
			strconv.Itoa(m.Month),
			m.Label,
			strconv.FormatFloat(m.Sales, 'f', 2, 64),
			strconv.FormatFloat(m.Purchases, 'f', 2, 64),
			strconv.FormatFloat(m.Profit, 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
