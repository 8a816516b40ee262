package cli

import (
	"context"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// SetupCommand records the initial odometer reading
type SetupCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewSetupCommand creates a new setup command handler
func NewSetupCommand(app *App) *SetupCommand {
	return &SetupCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the setup command
func (c *SetupCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "setup", "usage: lb setup KM")
	}
	km, err := validation.ParseOdometer("odometer", args[0])
	if err != nil {
		return c.errorHandler.Handle("set up odometer", err)
	}
	if err := c.app.ledger.SetBaseline(ctx, km); err != nil {
		return c.errorHandler.Handle("set up odometer", err)
	}
	c.app.printf("Odometer set to %d km\n", km)
	return nil
}

// OdometerCommand shows or corrects the odometer reading
type OdometerCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewOdometerCommand creates a new odometer command handler
func NewOdometerCommand(app *App) *OdometerCommand {
	return &OdometerCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute shows the reading without arguments and overrides it with one
func (c *OdometerCommand) Execute(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		if !c.app.ledger.HasBaseline() {
			c.app.printf("No odometer reading yet. Run 'lb setup KM' first.\n")
			return nil
		}
		c.app.printf("Odometer: %d km\n", c.app.ledger.CurrentKm())
		return nil
	case 1:
		km, err := validation.ParseOdometer("odometer", args[0])
		if err != nil {
			return c.errorHandler.Handle("update odometer", err)
		}
		previous := c.app.ledger.CurrentKm()
		if err := c.app.ledger.UpdateOdometer(ctx, km); err != nil {
			return c.errorHandler.Handle("update odometer", err)
		}
		c.app.printf("Odometer updated from %d km to %d km\n", previous, km)
		return nil
	default:
		return errors.NewInvalidInputError("command", "odometer", "usage: lb odometer [KM]")
	}
}
