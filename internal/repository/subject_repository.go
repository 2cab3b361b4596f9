package repository

import (
	"context"

	"github.com/noah-isme/gwa-tracker/internal/models"
	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
)

// SubjectRepository persists the active subject set as one JSON array.
type SubjectRepository struct {
	entry jsonEntry[[]models.Subject]
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(store kvstore.Store, key string, settings *SettingsRepository) *SubjectRepository {
	entry := jsonEntry[[]models.Subject]{store: store, key: key}
	if settings != nil {
		entry.settings = settings
	}
	return &SubjectRepository{entry: entry}
}

// Load returns the stored subjects, or an empty set when nothing was saved yet.
func (r *SubjectRepository) Load(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if _, err := r.entry.load(ctx, &subjects); err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// Save replaces the stored array. It reports false when autosave suppressed the write.
func (r *SubjectRepository) Save(ctx context.Context, subjects []models.Subject) (bool, error) {
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return r.entry.save(ctx, subjects)
}

// Clear removes the stored entry.
func (r *SubjectRepository) Clear(ctx context.Context) (bool, error) {
	return r.entry.clear(ctx)
}
