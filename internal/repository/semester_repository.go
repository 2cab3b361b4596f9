package repository

import (
	"context"

	"github.com/noah-isme/gwa-tracker/internal/models"
	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
)

// SemesterRepository persists archived semesters as one JSON array in storage order.
type SemesterRepository struct {
	entry jsonEntry[[]models.Semester]
}

// NewSemesterRepository creates a new repository instance.
func NewSemesterRepository(store kvstore.Store, key string, settings *SettingsRepository) *SemesterRepository {
	entry := jsonEntry[[]models.Semester]{store: store, key: key}
	if settings != nil {
		entry.settings = settings
	}
	return &SemesterRepository{entry: entry}
}

// Load returns the stored semesters.
func (r *SemesterRepository) Load(ctx context.Context) ([]models.Semester, error) {
	var semesters []models.Semester
	if _, err := r.entry.load(ctx, &semesters); err != nil {
		return nil, err
	}
	if semesters == nil {
		semesters = []models.Semester{}
	}
	for i := range semesters {
		if semesters[i].Subjects == nil {
			semesters[i].Subjects = []models.Subject{}
		}
	}
	return semesters, nil
}

// Save replaces the stored array. It reports false when autosave suppressed the write.
func (r *SemesterRepository) Save(ctx context.Context, semesters []models.Semester) (bool, error) {
	if semesters == nil {
		semesters = []models.Semester{}
	}
	return r.entry.save(ctx, semesters)
}
