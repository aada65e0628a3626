package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timesheet/internal/config"
	"timesheet/internal/domain"
	"timesheet/internal/logging"
)

const defaultAppTimeout = 60 * time.Second

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	app     *App
	runtime *Runtime
	out     io.Writer
}

// NewRootCommand creates the root command. Configuration is loaded and the
// stores are opened once flags are parsed.
func NewRootCommand(out io.Writer) *RootCommand {
	return newRootCommand(nil, out)
}

// NewRootCommandWithApp creates a root command over a prebuilt app
func NewRootCommandWithApp(app *App) *RootCommand {
	return newRootCommand(app, app.out)
}

func newRootCommand(app *App, out io.Writer) *RootCommand {
	root := &RootCommand{app: app, out: out}

	root.cmd = &cobra.Command{
		Use:   "ts",
		Short: "A personal timesheet with one stamp per day",
		Long: `Timesheet (ts) keeps one start and one end time per logical day.

The first stamp of a day records the start, the next one the end. Days roll
over at a configurable hour and reports cover a period that starts on a
configurable day of the month.

EXAMPLES:
  ts stamp                                 # Start or stop today
  ts stamp --at 2025-03-14T08:00:00+01:00  # Stamp at a given instant
  ts status                                # Show today
  ts list --previous                       # Entries of the previous period
  ts summary                               # Totals for the current period
  ts entry set 2025-03-13 --start 08:00 --end 16:30
  ts export --format pdf --out ~/reports   # Write a report
  ts serve --addr :8080                    # Run the HTTP API

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

  TS_CONFIG                                YAML or TOML config file
  TS_ENV                                   development, testing or production
  TS_DEBUG                                 Print debug output

  Database Configuration:
    TS_DB_DRIVER                           sqlite or postgres (default: sqlite)
    TS_DB_DIR                              Database directory (default: ~/.ts)
    TS_DB_FILENAME                         Database filename (default: ts.db)
    TS_DB_DSN                              Postgres connection string
    TS_DB_QUERY_TIMEOUT                    Query timeout (default: 10s)
    TS_DB_WRITE_TIMEOUT                    Write timeout (default: 5s)

  Time Configuration:
    TS_TIME_ZONE                           Reference zone (default: Europe/Copenhagen)
    TS_TIME_DISPLAY_FORMAT                 Time format (default: 2006-01-02 15:04)

  Settings Defaults:
    TS_USER                                User id (default: login name)
    TS_ROLLOVER_DAY                        First day of a period, 1-28 (default: 1)
    TS_ROLLOVER_HOUR                       Hour a day rolls over, 0-23 (default: 0)
    TS_ROUNDING_RULE                       none, 5, 10 or 15 (default: none)

  Queue, Export and Backup:
    TS_QUEUE_MAX_RETRIES                   Replays before a stamp is dropped (default: 3)
    TS_EXPORT_DIR                          Report directory (default: .)
    TS_BACKUP_DIR                          Backup directory (default: ~/.ts/backups)
    TS_BACKUP_LOOKBACK_DAYS                Days covered by a backup (default: 90)
    TS_BACKUP_INTERVAL                     Minimum time between backups (default: 24h)

  Server Configuration:
    TS_SERVER_ADDR                         Listen address (default: 127.0.0.1:8080)
    TS_SERVER_METRICS                      Serve /metrics (default: true)

  Application Configuration:
    TS_APP_TIMEOUT                         Command timeout (default: 60s)
    TS_APP_VERBOSE                         Enable verbose output (default: false)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasParent() && cmd.Parent().Name() == "completion" {
				return nil
			}
			return root.bootstrap(cmd.Context())
		},
	}
	root.cmd.SetOut(out)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetArgs sets the arguments used by Execute
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command and closes the stores it opened
func (r *RootCommand) Execute(ctx context.Context) error {
	defer func() {
		if r.runtime != nil {
			if err := r.runtime.Close(); err != nil {
				logging.Warnf("failed to close database: %v", err)
			}
			r.runtime = nil
			r.app = nil
		}
	}()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TS_CONFIG)")

	// Database configuration
	flags.String("db-driver", "", "Database driver (overrides TS_DB_DRIVER)")
	flags.String("db-dir", "", "Database directory (overrides TS_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TS_DB_FILENAME)")
	flags.String("db-dsn", "", "Postgres connection string (overrides TS_DB_DSN)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TS_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TS_DB_WRITE_TIMEOUT)")

	// Time configuration
	flags.String("zone", "", "Reference time zone (overrides TS_TIME_ZONE)")
	flags.String("time-format", "", "Time display format (overrides TS_TIME_DISPLAY_FORMAT)")

	// Settings defaults
	flags.String("user", "", "User id (overrides TS_USER)")
	flags.Int("rollover-day", 0, "Default rollover day (overrides TS_ROLLOVER_DAY)")
	flags.Int("rollover-hour", 0, "Default rollover hour (overrides TS_ROLLOVER_HOUR)")
	flags.String("rounding", "", "Default rounding rule (overrides TS_ROUNDING_RULE)")

	flags.Int("max-retries", 0, "Queue replay attempts (overrides TS_QUEUE_MAX_RETRIES)")
	flags.String("export-dir", "", "Report directory (overrides TS_EXPORT_DIR)")
	flags.String("backup-dir", "", "Backup directory (overrides TS_BACKUP_DIR)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides TS_SERVER_ADDR)")
	flags.Bool("metrics", false, "Serve /metrics (overrides TS_SERVER_METRICS)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TS_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TS_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Stamp command
	var at string
	stampCmd := &cobra.Command{
		Use:   "stamp",
		Short: "Start or stop the current day",
		Long: `Record a stamp. The first stamp of a logical day sets its start, the
second sets its end and later stamps move the end.

When the database cannot be reached the stamp is queued and replayed on the
next stamp or sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewStampCommand(r.app).Execute(ctx, at)
		},
	}
	stampCmd.Flags().StringVar(&at, "at", "", "Stamp at this RFC3339 instant instead of now")

	// Status command
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewStatusCommand(r.app).Execute(ctx)
		},
	}

	// List command
	var listPrevious bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewListCommand(r.app).Execute(ctx, listPrevious)
		},
	}
	listCmd.Flags().BoolVar(&listPrevious, "previous", false, "Use the previous period")

	// Period command
	var periodPrevious bool
	periodCmd := &cobra.Command{
		Use:   "period",
		Short: "Show the bounds of a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewPeriodCommand(r.app).Execute(ctx, periodPrevious)
		},
	}
	periodCmd.Flags().BoolVar(&periodPrevious, "previous", false, "Use the previous period")

	// Summary command
	var summaryPrevious bool
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals for a period",
		Long: `Show per-day totals, the period total and the average per worked day.

Open days are listed but not counted. When a rounding rule is set each day is
rounded to the nearest step before summing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewSummaryCommand(r.app).Execute(ctx, summaryPrevious)
		},
	}
	summaryCmd.Flags().BoolVar(&summaryPrevious, "previous", false, "Use the previous period")

	r.cmd.AddCommand(
		stampCmd,
		statusCmd,
		listCmd,
		periodCmd,
		summaryCmd,
		r.settingsCommand(),
		r.entryCommand(),
		r.exportCommand(),
		r.backupCommand(),
		r.syncCommand(),
		r.serveCommand(),
	)
}

func (r *RootCommand) settingsCommand() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewSettingsCommand(r.app).Show(ctx)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change the rollover or rounding settings",
		Long: `Change the stored settings. Only the flags given are changed.

Existing entries keep the day they were recorded on.`,
		Example: "  ts settings set --day 15 --rule 15",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			var patch domain.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("day") {
				v, _ := flags.GetInt("day")
				patch.RolloverDay = &v
			}
			if flags.Changed("hour") {
				v, _ := flags.GetInt("hour")
				patch.RolloverHour = &v
			}
			if flags.Changed("rule") {
				v, _ := flags.GetString("rule")
				patch.RoundingRule = &v
			}
			return NewSettingsCommand(r.app).Set(ctx, patch)
		},
	}
	setCmd.Flags().Int("day", 0, "First day of a period, 1-28")
	setCmd.Flags().Int("hour", 0, "Hour a day rolls over, 0-23")
	setCmd.Flags().String("rule", "", "Rounding rule: none, 5, 10 or 15")

	settingsCmd.AddCommand(setCmd)
	return settingsCmd
}

func (r *RootCommand) entryCommand() *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Edit a single day",
	}

	var start, end string
	setCmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Set the start and end of a day",
		Long: `Set the start and end of the day DATE (YYYY-MM-DD).

Times are HH:MM on that date in the reference zone, or full RFC3339
timestamps. If the end is before the start the two are swapped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewEntryCommand(r.app).Set(ctx, args[0], start, end)
		},
	}
	setCmd.Flags().StringVar(&start, "start", "", "Start time")
	setCmd.Flags().StringVar(&end, "end", "", "End time, empty leaves the day open")
	_ = setCmd.MarkFlagRequired("start")

	deleteCmd := &cobra.Command{
		Use:   "delete DATE",
		Short: "Delete the entry of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewEntryCommand(r.app).Delete(ctx, args[0])
		},
	}

	entryCmd.AddCommand(setCmd, deleteCmd)
	return entryCmd
}

func (r *RootCommand) exportCommand() *cobra.Command {
	var format, out string
	var previous bool
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a period report",
		Long: `Write the report of a period as csv, pdf or xlsx.

The file is named after the period, for example report-20250301-20250401.pdf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewExportCommand(r.app).Execute(ctx, format, previous, out)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "Report format: csv, pdf or xlsx")
	exportCmd.Flags().BoolVar(&previous, "previous", false, "Use the previous period")
	exportCmd.Flags().StringVar(&out, "out", "", "Output directory (default: export dir)")
	return exportCmd
}

func (r *RootCommand) backupCommand() *cobra.Command {
	var force bool
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a JSON backup of recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewBackupCommand(r.app).Execute(ctx, force)
		},
	}
	backupCmd.Flags().BoolVar(&force, "force", false, "Write even if a recent backup exists")
	return backupCmd
}

func (r *RootCommand) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay stamps queued while offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewSyncCommand(r.app).Execute(ctx)
		},
	}
}

func (r *RootCommand) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// runs until interrupted, no command timeout
			addr, _ := r.cmd.PersistentFlags().GetString("addr")
			return NewServeCommand(r.app).Execute(cmd.Context(), addr)
		},
	}
}

// commandContext derives the per-command timeout context
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return defaultAppTimeout
}

// bootstrap loads configuration and opens the stores unless an app was
// injected
func (r *RootCommand) bootstrap(ctx context.Context) error {
	if r.app != nil {
		return nil
	}

	cfg, err := config.NewLoader().LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	if cfg.Application.Verbose && !logging.DebugEnabled() {
		os.Setenv("TS_DEBUG", "1")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runtime, err := NewRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	r.runtime = runtime
	r.app = runtime.App(r.out)
	return nil
}

// overridesFromFlags collects the global flags that were set explicitly
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	o.ConfigPath = stringFlag(flags, "config")

	o.DBDriver = stringFlag(flags, "db-driver")
	o.DBDir = stringFlag(flags, "db-dir")
	o.DBFilename = stringFlag(flags, "db-filename")
	o.DBDSN = stringFlag(flags, "db-dsn")
	o.DBQueryTimeout = durationFlag(flags, "db-query-timeout")
	o.DBWriteTimeout = durationFlag(flags, "db-write-timeout")

	o.Zone = stringFlag(flags, "zone")
	o.TimeFormat = stringFlag(flags, "time-format")

	o.UserID = stringFlag(flags, "user")
	o.RolloverDay = intFlag(flags, "rollover-day")
	o.RolloverHour = intFlag(flags, "rollover-hour")
	o.RoundingRule = stringFlag(flags, "rounding")

	o.MaxRetries = intFlag(flags, "max-retries")
	o.ExportDir = stringFlag(flags, "export-dir")
	o.BackupDir = stringFlag(flags, "backup-dir")

	o.ServerAddr = stringFlag(flags, "addr")
	o.MetricsEnabled = boolFlag(flags, "metrics")

	o.Timeout = durationFlag(flags, "app-timeout")
	o.Verbose = boolFlag(flags, "verbose")

	return o
}

func stringFlag(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

func intFlag(flags *pflag.FlagSet, name string) *int {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetInt(name)
	return &v
}

func durationFlag(flags *pflag.FlagSet, name string) *time.Duration {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetDuration(name)
	return &v
}

func boolFlag(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetBool(name)
	return &v
}
