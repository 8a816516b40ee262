package cli

import (
	"context"
	"fmt"

	"mileage-logbook/internal/report"
)

// StatusCommand shows the odometer, the open trip and the running totals
type StatusCommand struct {
	app *App
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app}
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	l := c.app.ledger
	now := c.app.now()

	if !l.HasBaseline() {
		c.app.printf("No odometer reading yet. Run 'lb setup KM' first.\n")
		return nil
	}

	w := c.app.newTable()
	fmt.Fprintf(w, "Odometer:\t%d km\n", l.CurrentKm())
	if active, ok := l.ActiveTrip(); ok {
		fmt.Fprintf(w, "Trip in progress:\t%s since %s (%s) from %d km\n",
			c.app.typeLabel(active.Type),
			c.app.formatTime(active.StartTime),
			formatElapsed(active.Elapsed(now)),
			active.StartKm)
		if active.Note != "" {
			fmt.Fprintf(w, "Note:\t%s\n", active.Note)
		}
	} else {
		fmt.Fprintf(w, "Trip in progress:\tnone\n")
	}
	fmt.Fprintf(w, "Trips recorded:\t%d\n", len(l.Trips()))
	if err := w.Flush(); err != nil {
		return err
	}

	c.app.printf("\n")
	trips := l.Trips()
	return c.app.writeSummaries([]summaryLine{
		{"This week", report.SummarizeWeek(trips, now)},
		{"This month", report.SummarizeMonth(trips, now)},
		{"All time", report.SummarizeAll(trips)},
	})
}
