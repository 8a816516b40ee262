package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"mileage-logbook/internal/config"
	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/ledger"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/report"
)

// App carries the collaborators every command handler works with
type App struct {
	ledger *ledger.Ledger
	config *config.Config
	clock  ledger.Clock
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// NewApp creates a CLI application around an initialized ledger
func NewApp(l *ledger.Ledger, cfg *config.Config, clock ledger.Clock, in io.Reader, out io.Writer, logger *slog.Logger) *App {
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &App{
		ledger: l,
		config: cfg,
		clock:  clock,
		logger: logging.WithComponent(logger, logging.ComponentCLI),
		in:     in,
		out:    out,
	}
}

func (a *App) now() time.Time {
	return a.clock.Now()
}

func (a *App) locale() report.Locale {
	return a.config.Locale()
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) typeLabel(t domain.TripType) string {
	return a.locale().TypeLabel(t)
}

func (a *App) formatTime(t time.Time) string {
	return t.Local().Format(a.config.Display.TimeFormat)
}
