package cli

import (
	"context"
	"fmt"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/validation"
)

// SettingsCommand shows or changes the private-cost settings
type SettingsCommand struct {
	app          *App
	errorHandler *ErrorHandler
	price        *string
	startDate    *string
}

// NewSettingsCommand creates a new settings command handler
func NewSettingsCommand(app *App) *SettingsCommand {
	return &SettingsCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute shows the settings, updating them first when flags were given
func (c *SettingsCommand) Execute(ctx context.Context, args []string) error {
	settings, err := c.app.ledger.Settings(ctx)
	if err != nil {
		return c.errorHandler.Handle("read settings", err)
	}

	if c.price != nil || c.startDate != nil {
		ve := validation.NewValidationError()
		if c.price != nil {
			price, err := validation.ParsePrice(*c.price)
			collectFieldErrors(ve, err)
			settings.PrivatePrice = price
		}
		if c.startDate != nil {
			date, err := validation.ParseDate(*c.startDate)
			collectFieldErrors(ve, err)
			settings.StartDate = date
		}
		if ve.HasErrors() {
			return c.errorHandler.Handle("update settings", ve)
		}
		if err := c.app.ledger.UpdateSettings(ctx, settings); err != nil {
			return c.errorHandler.Handle("update settings", err)
		}
		c.app.printf("Settings updated\n")
	}

	return c.write(settings)
}

func (c *SettingsCommand) write(settings domain.Settings) error {
	w := c.app.newTable()
	fmt.Fprintf(w, "Private price per month:\t%s\n", settings.PrivatePrice)
	fmt.Fprintf(w, "Tracking start date:\t%s\n", settings.StartDate.Format(domain.DateLayout))
	return w.Flush()
}

func collectFieldErrors(ve *validation.ValidationError, err error) {
	if other, ok := err.(*validation.ValidationError); ok {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}
