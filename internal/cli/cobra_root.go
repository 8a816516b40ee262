package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mileage-logbook/internal/config"
	apperrors "mileage-logbook/internal/errors"
	"mileage-logbook/internal/ledger"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/storage"
	"mileage-logbook/internal/validation"
)

// StoreOpener opens the store backing the ledger once flags are applied
type StoreOpener func(cfg *config.Config) (storage.Store, error)

// Deps are the collaborators the root command is built from. Zero values
// fall back to the process defaults.
type Deps struct {
	Config *config.Config
	Open   StoreOpener
	Clock  ledger.Clock
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
}

// Command is implemented by every command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd   *cobra.Command
	deps  Deps
	flags globalFlags
	store storage.Store
	app   *App
}

type globalFlags struct {
	dbDir      string
	dbFilename string
	locale     string
	listLimit  int
	timeout    time.Duration
	verbose    bool
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(deps Deps) *RootCommand {
	if deps.Config == nil {
		deps.Config = config.NewConfig()
	}
	if deps.Clock == nil {
		deps.Clock = ledger.SystemClock{}
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}

	root := &RootCommand{deps: deps}
	root.cmd = &cobra.Command{
		Use:   "lb",
		Short: "A command-line mileage logbook",
		Long: `Mileage Logbook (lb) records the trips of one vehicle by odometer reading.

FEATURES:
  • Record an odometer baseline and start and end trips
  • Tag trips as business or private and edit them afterwards
  • Weekly, monthly and all-time distance summaries
  • Flat and periodic CSV exports in German or English
  • Private-use cost analysis against a flat monthly price
  • JSON backup and restore

EXAMPLES:
  lb setup 10000                           # Record the odometer baseline
  lb start --type business "Client visit"  # Start a business trip
  lb end 10070                             # End it at 10070 km
  lb status                                # Show odometer, running trip and totals
  lb list --limit 20                       # Show the 20 most recent trips
  lb export --all --out ~/reports          # Write both CSV documents
  lb backup logbook.json                   # Back up every persisted value

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env file > defaults

    LB_ENV                                 testing, development or production (default)
    LB_DB_DIR                              Database directory (default: ~/.lb)
    LB_DB_FILENAME                         Database filename (default: lb.db)
    LB_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    LB_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)
    LB_REPORT_LOCALE                       CSV and label language, de or en (default: de)
    LB_REPORT_FLAT_PREFIX                  Flat export filename prefix (default: Fahrtenbuch)
    LB_REPORT_PERIODIC_PREFIX              Periodic report filename prefix (default: Fahrtenbuch_Bericht)
    LB_DISPLAY_LIST_LIMIT                  Trips shown by list (default: 10)
    LB_DISPLAY_TIME_FORMAT                 Time format (default: 2006-01-02 15:04)
    LB_APP_TIMEOUT                         Application timeout (default: 60s)
    LB_APP_VERBOSE                         Enable verbose output (default: false)
    LB_DEBUG                               Debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.applyFlags(cmd)
		},
	}
	root.cmd.SetIn(deps.In)
	root.cmd.SetOut(deps.Out)
	root.cmd.SetErr(deps.Err)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// ExecuteContext runs the root command with args under ctx
func (r *RootCommand) ExecuteContext(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	return r.cmd.ExecuteContext(ctx)
}

// Close releases the store if a command opened one
func (r *RootCommand) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	r.app = nil
	return err
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.flags.dbDir, "db-dir", "", "Database directory (overrides LB_DB_DIR)")
	flags.StringVar(&r.flags.dbFilename, "db-filename", "", "Database filename (overrides LB_DB_FILENAME)")
	flags.StringVar(&r.flags.locale, "locale", "", "Report language, de or en (overrides LB_REPORT_LOCALE)")
	flags.IntVar(&r.flags.listLimit, "list-limit", 0, "Trips shown by list (overrides LB_DISPLAY_LIST_LIMIT)")
	flags.DurationVar(&r.flags.timeout, "app-timeout", 0, "Application timeout (overrides LB_APP_TIMEOUT)")
	flags.BoolVarP(&r.flags.verbose, "verbose", "v", false, "Enable debug logging (overrides LB_APP_VERBOSE)")
}

// applyFlags copies the flags set on the command line onto the configuration
func (r *RootCommand) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	overrides := config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		overrides.DBDir = &r.flags.dbDir
	}
	if flags.Changed("db-filename") {
		overrides.DBFilename = &r.flags.dbFilename
	}
	if flags.Changed("locale") {
		overrides.Locale = &r.flags.locale
	}
	if flags.Changed("list-limit") {
		overrides.ListLimit = &r.flags.listLimit
	}
	if flags.Changed("app-timeout") {
		overrides.Timeout = &r.flags.timeout
	}
	if flags.Changed("verbose") {
		overrides.Verbose = &r.flags.verbose
	}

	overrides.Apply(r.deps.Config)
	return r.deps.Config.Validate()
}

// application opens the store and loads the ledger on first use, so help
// and completion never touch the database.
func (r *RootCommand) application(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	logger := r.buildLogger()
	open := r.deps.Open
	if open == nil {
		open = func(cfg *config.Config) (storage.Store, error) {
			return config.NewStoreFactory(config.GetEnvironment(), cfg).CreateStore()
		}
	}
	store, err := open(r.deps.Config)
	if err != nil {
		return nil, err
	}

	l := ledger.New(store, ledger.WithClock(r.deps.Clock), ledger.WithLogger(logger))
	state, err := l.Initialize(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load logbook: %w", err)
	}
	logger.DebugContext(ctx, "logbook loaded",
		logging.FieldCurrentKm, l.CurrentKm(),
		logging.FieldCount, len(l.Trips()),
		"has_baseline", state.HasBaseline,
		"has_active_trip", state.HasActiveTrip)

	r.store = store
	r.app = NewApp(l, r.deps.Config, r.deps.Clock, r.deps.In, r.deps.Out, logger)
	return r.app, nil
}

func (r *RootCommand) buildLogger() *slog.Logger {
	if r.deps.Logger != nil {
		return r.deps.Logger
	}
	cfg := logging.DefaultConfig()
	cfg.Output = r.deps.Err
	if r.deps.Config.Application.Verbose {
		cfg.Level = slog.LevelDebug
	}
	return logging.New(cfg)
}

// run wraps a handler constructor into a cobra RunE bounded by the application timeout
func (r *RootCommand) run(build func(cmd *cobra.Command, app *App) Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.deps.Config.Application.Timeout)
		defer cancel()

		app, err := r.application(ctx)
		if err != nil {
			return err
		}
		if err := build(cmd, app).Execute(ctx, args); err != nil {
			app.logger.DebugContext(ctx, "command failed",
				logging.FieldOperation, cmd.Name(),
				"code", apperrors.GetErrorCode(err))
			return err
		}
		return nil
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	setupCmd := &cobra.Command{
		Use:   "setup KM",
		Short: "Record the odometer baseline",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewSetupCommand(app)
		}),
	}

	odometerCmd := &cobra.Command{
		Use:   "odometer [KM]",
		Short: "Show or correct the odometer reading",
		Long: `Without an argument, print the current odometer reading.
With one, override it, e.g. after driving without logging.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewOdometerCommand(app)
		}),
	}

	var startType string
	startCmd := &cobra.Command{
		Use:   "start [note...]",
		Short: "Start a trip at the current odometer reading",
		Long: `Start a trip at the current odometer reading. Remaining arguments form the note.

Examples:
  lb start                                 # Start a trip of the selected type
  lb start --type private Supermarket      # Start a private trip with a note`,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewStartCommand(app)
			h.tripType = startType
			return h
		}),
	}
	startCmd.Flags().StringVarP(&startType, "type", "t", "", "Trip type: business or private")

	endCmd := &cobra.Command{
		Use:   "end KM",
		Short: "End the running trip at the given odometer reading",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewEndCommand(app)
		}),
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Discard the running trip",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewCancelCommand(app)
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the odometer, the running trip and distance totals",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewStatusCommand(app)
		}),
	}

	var listLimit int
	var listAll bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trips, newest first",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewListCommand(app)
			h.limit = listLimit
			h.all = listAll
			return h
		}),
	}
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Number of trips to show (default from LB_DISPLAY_LIST_LIMIT)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Show every trip")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one trip",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewShowCommand(app)
		}),
	}

	var editType, editStart, editEnd, editNote string
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a recorded trip",
		Long: `Change the type, readings or note of a recorded trip. The distance is
recomputed; the start and end times are kept.

Example:
  lb edit 1760000000000 --end 10070 --note "Client visit"`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewEditCommand(app)
			h.edit = validation.TripEdit{
				Type:    changedString(cmd, "type", &editType),
				StartKm: changedString(cmd, "start", &editStart),
				EndKm:   changedString(cmd, "end", &editEnd),
				Note:    changedString(cmd, "note", &editNote),
			}
			return h
		}),
	}
	editCmd.Flags().StringVarP(&editType, "type", "t", "", "Trip type: business or private")
	editCmd.Flags().StringVar(&editStart, "start", "", "Start odometer reading in km")
	editCmd.Flags().StringVar(&editEnd, "end", "", "End odometer reading in km")
	editCmd.Flags().StringVar(&editNote, "note", "", "Note")

	var deleteYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewDeleteCommand(app)
			h.yes = deleteYes
			return h
		}),
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")

	var clearYes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every trip, keeping the odometer and settings",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewClearCommand(app)
			h.yes = clearYes
			return h
		}),
	}
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")

	var resetYes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase the whole logbook",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewResetCommand(app)
			h.yes = resetYes
			return h
		}),
	}
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")

	var period string
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show distance totals by trip type",
		Long: `Show business, private and total kilometres.

Without --period the current week, the current month and all time are shown.`,
		Args: cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewSummaryCommand(app)
			h.period = period
			return h
		}),
	}
	summaryCmd.Flags().StringVarP(&period, "period", "p", "", "One of all, week or month")

	var exportFormat, exportOut string
	var exportAll bool
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the trips as CSV",
		Long: `Write the flat trip list or the periodic report as CSV.

Files are named PREFIX_YYYY-MM-DD.csv; --out - prints to stdout instead.

Examples:
  lb export                                # Flat list into the current directory
  lb export --format report --out -        # Periodic report on stdout
  lb export --all --out ~/reports          # Both documents`,
		Args: cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewExportCommand(app)
			h.format = exportFormat
			h.all = exportAll
			h.outDir = exportOut
			return h
		}),
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", FormatFlat, "flat or report")
	exportCmd.Flags().BoolVarP(&exportAll, "all", "a", false, "Write both documents")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Target directory, or - for stdout")

	var price, startDate string
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the private-cost settings",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewSettingsCommand(app)
			h.price = changedString(cmd, "price", &price)
			h.startDate = changedString(cmd, "start-date", &startDate)
			return h
		}),
	}
	settingsCmd.Flags().StringVar(&price, "price", "", "Flat monthly price of private use, e.g. 251.00")
	settingsCmd.Flags().StringVar(&startDate, "start-date", "", "First month charged, YYYY-MM-DD or DD.MM.YYYY")

	costCmd := &cobra.Command{
		Use:   "cost",
		Short: "Show the cost of private use per kilometre",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewCostCommand(app)
		}),
	}

	backupCmd := &cobra.Command{
		Use:   "backup [FILE]",
		Short: "Write every persisted value as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			return NewBackupCommand(app)
		}),
	}

	var restoreYes bool
	restoreCmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the logbook with a JSON backup",
		Long: `Replace the logbook with a JSON backup written by 'lb backup'.
FILE may be - to read from stdin, which requires --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, app *App) Command {
			h := NewRestoreCommand(app)
			h.yes = restoreYes
			return h
		}),
	}
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Do not ask for confirmation")

	r.cmd.AddCommand(
		setupCmd,
		odometerCmd,
		startCmd,
		endCmd,
		cancelCmd,
		statusCmd,
		listCmd,
		showCmd,
		editCmd,
		deleteCmd,
		clearCmd,
		resetCmd,
		summaryCmd,
		exportCmd,
		settingsCmd,
		costCmd,
		backupCmd,
		restoreCmd,
	)
}

// changedString returns value only when the flag was given on the command line
func changedString(cmd *cobra.Command, name string, value *string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := *value
	return &v
}
