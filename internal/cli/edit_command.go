package cli

import (
	"context"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/ledger"
	"mileage-logbook/internal/validation"
)

// EditCommand changes the type, readings or note of a recorded trip.
// Times are never edited.
type EditCommand struct {
	app          *App
	errorHandler *ErrorHandler
	edit         validation.TripEdit
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the edit command
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: lb edit ID [--type T] [--start KM] [--end KM] [--note TEXT]")
	}
	id, err := validation.ParseTripID(args[0])
	if err != nil {
		return c.errorHandler.Handle("edit trip", err)
	}
	trip, ok := c.app.ledger.FindByID(id)
	if !ok {
		return c.errorHandler.Handle("edit trip", errors.NewTripNotFoundError(id))
	}
	if c.edit == (validation.TripEdit{}) {
		return c.errorHandler.Handle("edit trip",
			errors.NewInvalidInputError("flags", "", "nothing to change, pass --type, --start, --end or --note"))
	}

	edited, err := validation.ApplyTripEdit(trip, c.edit)
	if err != nil {
		return c.errorHandler.Handle("edit trip", err)
	}

	updated, err := c.app.ledger.UpdateTrip(ctx, id, ledger.TripUpdate{
		Type:    edited.Type,
		StartKm: edited.StartKm,
		EndKm:   edited.EndKm,
		Note:    edited.Note,
	})
	if err != nil {
		return c.errorHandler.Handle("edit trip", err)
	}

	c.app.printf("Updated trip %d: %s, %d - %d km, %d km\n",
		updated.ID, c.app.typeLabel(updated.Type), updated.StartKm, updated.EndKm, updated.Distance)
	return nil
}
