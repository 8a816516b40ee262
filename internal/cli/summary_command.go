package cli

import (
	"context"
	"fmt"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/report"
)

// Summary periods
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// SummaryCommand prints distance totals by trip type
type SummaryCommand struct {
	app          *App
	errorHandler *ErrorHandler
	period       string
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints one period, or the week, month and all-time totals when none is chosen.
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	trips := c.app.ledger.Trips()
	now := c.app.now()

	week := summaryLine{"This week", report.SummarizeWeek(trips, now)}
	month := summaryLine{"This month", report.SummarizeMonth(trips, now)}
	all := summaryLine{"All time", report.SummarizeAll(trips)}

	switch c.period {
	case "":
		return c.app.writeSummaries([]summaryLine{week, month, all})
	case PeriodWeek:
		return c.app.writeSummaries([]summaryLine{week})
	case PeriodMonth:
		return c.app.writeSummaries([]summaryLine{month})
	case PeriodAll:
		return c.app.writeSummaries([]summaryLine{all})
	default:
		return c.errorHandler.Handle("summarize trips",
			errors.NewInvalidInputError("period", c.period, "must be all, week or month"))
	}
}

// CostCommand sets the flat private-use price against the private kilometres driven
type CostCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewCostCommand creates a new cost command handler
func NewCostCommand(app *App) *CostCommand {
	return &CostCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the cost command
func (c *CostCommand) Execute(ctx context.Context, args []string) error {
	settings, err := c.app.ledger.Settings(ctx)
	if err != nil {
		return c.errorHandler.Handle("analyze private cost", err)
	}
	cost := report.AnalyzePrivateCost(c.app.ledger.Trips(), settings, c.app.now())

	w := c.app.newTable()
	fmt.Fprintf(w, "Tracking since:\t%s\n", cost.Since.Format(c.app.locale().DateLayout))
	fmt.Fprintf(w, "Months:\t%d\n", cost.Months)
	fmt.Fprintf(w, "Monthly price:\t%s\n", cost.MonthlyPrice)
	fmt.Fprintf(w, "Total cost:\t%s\n", cost.TotalCost)
	fmt.Fprintf(w, "Private distance:\t%d km\n", cost.PrivateKm)
	if cost.PrivateKm > 0 {
		fmt.Fprintf(w, "Cost per km:\t%s\n", cost.CostPerKm)
	} else {
		fmt.Fprintf(w, "Cost per km:\tn/a (no private trips)\n")
	}
	return w.Flush()
}
