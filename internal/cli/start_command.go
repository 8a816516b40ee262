package cli

import (
	"context"
	"strings"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// StartCommand handles the start command
type StartCommand struct {
	app          *App
	errorHandler *ErrorHandler
	tripType     string
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute opens a trip at the current odometer reading. All arguments form the note.
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	if !c.app.ledger.HasBaseline() {
		return c.errorHandler.Handle("start trip",
			errors.NewInvalidInputError("odometer", "", "no odometer reading yet, run 'lb setup KM' first"))
	}

	if c.tripType != "" {
		tripType, err := validation.ParseTripType(c.tripType)
		if err != nil {
			return c.errorHandler.Handle("start trip", err)
		}
		if err := c.app.ledger.SelectType(tripType); err != nil {
			return c.errorHandler.Handle("start trip", err)
		}
	}

	active, err := c.app.ledger.StartTrip(ctx, strings.Join(args, " "))
	if err != nil {
		return c.errorHandler.Handle("start trip", err)
	}

	c.app.printf("Started %s trip at %d km", c.app.typeLabel(active.Type), active.StartKm)
	if active.Note != "" {
		c.app.printf(": %s", active.Note)
	}
	c.app.printf("\n")
	return nil
}
