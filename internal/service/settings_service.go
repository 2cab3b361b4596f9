package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
)

type settingsRepository interface {
	Autosave(ctx context.Context) (bool, error)
	SetAutosave(ctx context.Context, enabled bool) error
}

type flusher interface {
	Flush(ctx context.Context) error
}

// SettingsService exposes the autosave toggle.
type SettingsService struct {
	repo     settingsRepository
	flushers []flusher
	logger   *zap.Logger

	// mu serialises toggles so each off-to-on transition flushes exactly once.
	mu sync.Mutex
}

// NewSettingsService builds the service. When autosave is turned on, every flusher writes
// its in-memory state so the store catches up with changes made while it was off.
func NewSettingsService(repo settingsRepository, logger *zap.Logger, flushers ...flusher) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, flushers: flushers, logger: logger}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	enabled, err := s.repo.Autosave(ctx)
	if err != nil {
		return models.Settings{}, appErrors.Internal(err, "failed to load settings")
	}
	return models.Settings{Autosave: enabled}, nil
}

// SetAutosave stores the toggle.
func (s *SettingsService) SetAutosave(ctx context.Context, enabled bool) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.repo.Autosave(ctx)
	if err != nil {
		return models.Settings{}, appErrors.Internal(err, "failed to load settings")
	}
	if err := s.repo.SetAutosave(ctx, enabled); err != nil {
		return models.Settings{}, appErrors.Internal(err, "failed to save settings")
	}
	if enabled && !previous {
		for _, f := range s.flushers {
			if err := f.Flush(ctx); err != nil {
				return models.Settings{Autosave: enabled}, err
			}
		}
	}
	s.logger.Info("autosave updated", zap.Bool("enabled", enabled))
	return models.Settings{Autosave: enabled}, nil
}
