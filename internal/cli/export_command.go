package cli

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/report"
)

// Export formats
const (
	FormatFlat   = "flat"
	FormatReport = "report"
)

// StdoutTarget writes exports to standard output instead of files.
const StdoutTarget = "-"

// ExportCommand writes the CSV exports
type ExportCommand struct {
	app          *App
	errorHandler *ErrorHandler
	format       string
	all          bool
	outDir       string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, errorHandler: NewErrorHandler(), format: FormatFlat, outDir: "."}
}

type exportDoc struct {
	filename string
	render   func([]domain.Trip, report.Locale) string
	content  string
}

// Execute renders the selected documents from one snapshot of the trips
// concurrently, then writes them in a fixed order.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	docs, err := c.documents()
	if err != nil {
		return c.errorHandler.Handle("export trips", err)
	}

	trips := c.app.ledger.Trips()
	locale := c.app.locale()

	g, gctx := errgroup.WithContext(ctx)
	for _, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc.content = doc.render(trips, locale)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return c.errorHandler.Handle("export trips", err)
	}

	for _, doc := range docs {
		if err := c.write(ctx, doc, len(trips)); err != nil {
			return c.errorHandler.Handle("export trips", err)
		}
	}
	return nil
}

func (c *ExportCommand) documents() ([]*exportDoc, error) {
	now := c.app.now()
	prefixes := c.app.config.Report
	flat := &exportDoc{filename: report.ExportFilename(prefixes.FlatPrefix, now), render: report.ExportFlatCSV}
	periodic := &exportDoc{filename: report.ExportFilename(prefixes.PeriodicPrefix, now), render: report.ExportPeriodicReport}

	if c.all {
		return []*exportDoc{flat, periodic}, nil
	}
	switch c.format {
	case FormatFlat, "":
		return []*exportDoc{flat}, nil
	case FormatReport:
		return []*exportDoc{periodic}, nil
	default:
		return nil, errors.NewInvalidInputError("format", c.format, "must be flat or report")
	}
}

func (c *ExportCommand) write(ctx context.Context, doc *exportDoc, tripCount int) error {
	if doc.content == "" {
		if c.outDir == StdoutTarget {
			c.app.logger.InfoContext(ctx, "no trips to report, skipped", logging.FieldPath, doc.filename)
			return nil
		}
		c.app.printf("No trips to report, skipped %s\n", doc.filename)
		return nil
	}
	if c.outDir == StdoutTarget {
		c.app.printf("%s", doc.content)
		return nil
	}

	path := filepath.Join(c.outDir, doc.filename)
	if err := os.WriteFile(path, []byte(doc.content), 0o644); err != nil {
		return errors.NewStorageError("write export "+path, err).
			WithContext("path", path)
	}
	c.app.logger.DebugContext(ctx, "export written", logging.FieldPath, path, logging.FieldCount, tripCount)
	c.app.printf("Wrote %s (%d trips)\n", path, tripCount)
	return nil
}
