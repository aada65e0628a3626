package services

import (
	"context"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/repository"
	"timesheet/internal/validation"
)

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	repo      repository.SettingsStore
	defaults  domain.Settings
	mapper    *domain.Mapper
	validator *validation.SettingsValidator
	timeouts  Timeouts
}

// NewSettingsService creates a new SettingsService. defaults apply to every
// user without stored settings; its UserID is ignored.
func NewSettingsService(repo repository.SettingsStore, defaults domain.Settings, validator *validation.Validator, timeouts Timeouts) SettingsService {
	return &settingsServiceImpl{
		repo:      repo,
		defaults:  defaults,
		mapper:    domain.NewMapper(),
		validator: validation.NewSettingsValidator(validator),
		timeouts:  timeouts,
	}
}

// Get returns the effective settings for a user
func (s *settingsServiceImpl) Get(ctx context.Context, userID string) (domain.Settings, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Update validates the patch, merges it over the effective settings and
// stores the result. Stored settings that are themselves invalid can still
// be repaired this way.
func (s *settingsServiceImpl) Update(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.Settings, error) {
	if err := s.validator.ValidatePatch(patch); err != nil {
		return domain.Settings{}, err
	}

	current, err := s.load(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}
	updated := patch.Apply(current)
	if err := s.validator.ValidateSettings(updated); err != nil {
		return domain.Settings{}, err
	}

	ctx, cancel := s.timeouts.write(ctx)
	defer cancel()
	row, err := s.repo.UpsertSettings(ctx, s.mapper.Settings.ToDatabase(updated))
	if err != nil {
		return domain.Settings{}, err
	}
	return s.mapper.Settings.FromDatabase(row), nil
}

func (s *settingsServiceImpl) load(ctx context.Context, userID string) (domain.Settings, error) {
	ctx, cancel := s.timeouts.query(ctx)
	defer cancel()

	row, err := s.repo.GetSettings(ctx, userID)
	if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		defaults := s.defaults
		defaults.UserID = userID
		return defaults, nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return s.mapper.Settings.FromDatabase(row), nil
}
