package shell

import (
	"context"
	"fmt"
	"strings"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/report"
)

var (
	line60 = strings.Repeat("-", 60)
	line70 = strings.Repeat("-", 70)
)

func (s *Shell) viewStatus() {
	s.println("\n=== BUDGET STATUS ===")

	snap := s.budget.Snapshot()
	if snap.Limits.Len() == 0 {
		s.println("No budget categories set up yet!")
		return
	}

	r := report.Status(snap)
	s.printf("\nMonthly Income: $%s\n", core.FormatAmount(r.Income))
	s.printf("Total Budget: $%s\n", core.FormatAmount(r.TotalBudget))
	s.printf("Total Spent: $%s\n", core.FormatAmount(r.TotalSpent))
	s.printf("Remaining: $%s\n\n", core.FormatAmount(r.Remaining))

	s.println(line60)
	s.printf("%-20s %-12s %-12s %s\n", "Category", "Spent", "Budget", "Status")
	s.println(line60)

	for _, row := range r.Rows {
		bar := report.Bar(row.Fill, report.BarWidth)
		s.printf("%-20s $%9s $%9s  [%s] %s%%\n",
			row.Category,
			core.FormatAmount(row.Spent),
			core.FormatAmount(row.Limit),
			bar,
			row.Percentage.StringFixed(0))
		if note := report.RowNote(row.Status); note != "" {
			s.printf("%-20s %s\n", "", s.st.warning.Render("⚠ "+note))
		}
	}
	s.println(line60)
}

func (s *Shell) monthlySummary() {
	s.println("\n=== MONTHLY SUMMARY ===")

	snap := s.budget.Snapshot()
	if len(snap.Expenses) == 0 {
		s.println("No expenses recorded yet!")
		return
	}

	sum := report.MonthlySummary(snap)
	s.printf("\nTotal Monthly Spending: $%s\n", core.FormatAmount(sum.TotalSpent))
	s.printf("Monthly Income: $%s\n", core.FormatAmount(sum.Income))
	s.printf("Net Savings: $%s\n", core.FormatAmount(sum.NetSavings))
	s.printf("\nNumber of Transactions: %d\n\n", sum.Transactions)

	s.println(line70)
	s.printf("%-20s %-15s %-12s %s\n", "Category", "Transactions", "Total", "% of Spending")
	s.println(line70)
	for _, c := range sum.Categories {
		s.printf("%-20s %-15d $%9s  %5s%%\n",
			c.Category, c.Transactions, core.FormatAmount(c.Total), c.Percent.StringFixed(1))
	}
	s.println(line70)

	s.printf("\nRecent Transactions (last %d):\n", s.recent)
	s.println(line70)
	for _, e := range report.Recent(snap, s.recent) {
		s.printf("%s | %-15s | $%7s | %s\n",
			e.Date.String(), e.Category, core.FormatAmount(e.Amount), e.Description)
	}
}

// exportData writes the export to every target. Export problems are shown
// to the user and never end the session.
func (s *Shell) exportData(ctx context.Context) {
	s.println("\n=== EXPORT DATA ===")

	if s.exporter == nil {
		s.println("No export targets configured!")
		return
	}

	logger := s.logger.WithComponent(applog.ComponentExport)
	rows := report.ExportRows(s.budget.Snapshot())
	results, err := s.exporter.ExportAll(ctx, rows, s.now())
	if err != nil {
		logger.ErrorContext(ctx, "Export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		s.println(s.st.danger.Render(fmt.Sprintf("Export failed: %v", err)))
		return
	}

	for i, r := range results {
		switch {
		case i == 0:
			logger.InfoContext(ctx, "Data exported",
				applog.FieldOperation, applog.OpExport,
				applog.FieldExportRef, r.Ref,
				applog.FieldRows, len(rows))
			s.println(s.st.success.Render(" Data exported to " + r.Ref))
		case r.Err != nil:
			logger.WarnContext(ctx, "Secondary export failed", "target", r.Target, applog.FieldError, r.Err)
			s.println(s.st.warning.Render(fmt.Sprintf("⚠ %s export failed: %v", r.Target, r.Err)))
		default:
			s.println(s.st.success.Render(fmt.Sprintf(" Data exported to %s: %s", r.Target, r.Ref)))
		}
	}
}
