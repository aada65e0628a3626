package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"timesheet/internal/api"
	"timesheet/internal/config"
	"timesheet/internal/domain"
	"timesheet/internal/export"
	"timesheet/internal/logging"
	"timesheet/internal/metrics"
	"timesheet/internal/queue"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

// Runtime is the fully wired application for one configuration
type Runtime struct {
	Config   *config.Config
	Calendar *timecalc.Calendar
	API      api.BusinessAPI
	Registry *prometheus.Registry

	stores *config.Stores
}

// NewRuntime opens the stores for cfg and wires every service over them
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	calendar, err := cfg.Calendar()
	if err != nil {
		return nil, err
	}
	rule, err := timecalc.ParseRoundingRule(cfg.Defaults.RoundingRule)
	if err != nil {
		return nil, err
	}

	stores, err := config.NewRepositoryFactory(config.GetEnvironment(), cfg).CreateRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	defaults := domain.Settings{
		UserID:       cfg.User.ID,
		RolloverDay:  cfg.Defaults.RolloverDay,
		RolloverHour: cfg.Defaults.RolloverHour,
		RoundingRule: rule,
	}
	container := services.NewServiceContainer(
		stores.Repository,
		calendar,
		defaults,
		validation.NewValidatorWithConfig(cfg),
		services.Timeouts{Query: cfg.GetQueryTimeout(), Write: cfg.GetWriteTimeout()},
	)

	registry := prometheus.NewRegistry()
	businessAPI := api.NewBusinessAPI(container, cfg.User.ID, api.Options{
		Queue:              queue.New(stores.Queue, cfg.Queue.MaxRetries),
		Backups:            export.NewBackupWriter(cfg.Backup.Dir, cfg.Backup.Interval),
		BackupLookbackDays: cfg.Backup.LookbackDays,
		Metrics:            metrics.New(registry),
	})

	logging.Debugf("runtime ready: driver=%s user=%s zone=%s", cfg.Database.Driver, cfg.User.ID, cfg.Time.Zone)
	return &Runtime{
		Config:   cfg,
		Calendar: calendar,
		API:      businessAPI,
		Registry: registry,
		stores:   stores,
	}, nil
}

// App returns a CLI application over the runtime
func (r *Runtime) App(out io.Writer) *App {
	return NewApp(r.API, r.Config, r.Calendar, out).WithGatherer(r.Registry)
}

// Close closes the underlying stores
func (r *Runtime) Close() error {
	return r.stores.Close()
}
