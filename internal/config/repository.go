package config

import (
	"context"
	"fmt"
	"os"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/repository"
	"timesheet/internal/repository/postgres"
	"timesheet/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment reads TS_ENV, defaulting to production
func GetEnvironment() Environment {
	switch Environment(os.Getenv("TS_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// Stores bundles the entry repository with the offline queue. The queue is
// always kept in a local sqlite database so stamps can be captured while
// the entry store is unreachable.
type Stores struct {
	Repository repository.Repository
	Queue      repository.QueueStore

	closers []func() error
}

// Close closes every underlying database handle
func (s *Stores) Close() error {
	var first error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env    Environment
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment, config *Config) *RepositoryFactory {
	return &RepositoryFactory{env: env, config: config}
}

// CreateRepository creates the stores for the current environment
func (rf *RepositoryFactory) CreateRepository(ctx context.Context) (*Stores, error) {
	switch rf.env {
	case Testing:
		return CreateTestRepository(ctx)
	case Development:
		cfg := *rf.config
		cfg.Database.Dir = "."
		cfg.Database.Filename = "ts-dev.db"
		return CreateRepository(ctx, &cfg)
	default:
		return CreateRepository(ctx, rf.config)
	}
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(ctx context.Context, config *Config) (*Stores, error) {
	if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if config.Database.Driver != DriverPostgres {
		repo, err := sqlite.New(ctx, config.GetDatabasePath())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return &Stores{Repository: repo, Queue: repo, closers: []func() error{repo.Close}}, nil
	}

	queue, err := sqlite.New(ctx, config.GetQueuePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue database: %w", err)
	}
	remote, err := postgres.Connect(config.Database.DSN)
	if err != nil {
		queue.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// An unreachable server is not fatal: stamps are queued locally and
	// replayed once it answers again.
	if err := remote.EnsureSchema(ctx); err != nil {
		if !apperrors.IsRetryable(err) {
			remote.Close()
			queue.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logging.Warnf("remote database unavailable, stamps will be queued: %v", err)
	}
	return &Stores{Repository: remote, Queue: queue, closers: []func() error{remote.Close, queue.Close}}, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository(ctx context.Context) (*Stores, error) {
	repo, err := sqlite.New(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return &Stores{Repository: repo, Queue: repo, closers: []func() error{repo.Close}}, nil
}
