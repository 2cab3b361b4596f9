package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gwa-tracker/internal/academic"
	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
)

type subjectRepository interface {
	Load(ctx context.Context) ([]models.Subject, error)
	Save(ctx context.Context, subjects []models.Subject) (bool, error)
	Clear(ctx context.Context) (bool, error)
}

// SubjectService owns the active subject set. The in-memory collection is authoritative;
// every accepted mutation is written through to the repository before it becomes visible.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
	observer  mutationObserver
	newID     func() string

	gate     mutationGate
	mu       sync.RWMutex
	subjects []models.Subject
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		observer:  nopObserver{},
		newID:     uuid.NewString,
		gate:      mutationGate{resource: "subject"},
		subjects:  []models.Subject{},
	}
}

// WithObserver reports mutation outcomes to o.
func (s *SubjectService) WithObserver(o mutationObserver) *SubjectService {
	if o != nil {
		s.observer = o
	}
	return s
}

// Load replaces the in-memory set with the persisted one.
func (s *SubjectService) Load(ctx context.Context) error {
	subjects, err := s.repo.Load(ctx)
	if err != nil {
		return appErrors.Internal(err, "failed to load subjects")
	}
	s.mu.Lock()
	s.subjects = subjects
	s.mu.Unlock()
	s.publish(subjects)
	s.logger.Info("subjects loaded", zap.Int("count", len(subjects)))
	return nil
}

// List returns a copy of the active subjects in insertion order.
func (s *SubjectService) List() []models.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneSubjects(s.subjects)
}

// Get returns subject by identifier.
func (s *SubjectService) Get(id string) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := indexOfSubject(s.subjects, id); idx >= 0 {
		subject := s.subjects[idx]
		return &subject, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

// Summary derives the GWA and honor of the active set.
func (s *SubjectService) Summary() models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return academic.Aggregate(s.subjects)
}

// Create validates the form and appends a new subject.
func (s *SubjectService) Create(ctx context.Context, req dto.SubjectRequest) (subject *models.Subject, err error) {
	if err := s.gate.enter(); err != nil {
		return nil, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("subject", "create", err) }()

	fields, err := s.parse(req)
	if err != nil {
		return nil, err
	}
	fields.ID = s.newID()

	next := append(s.List(), fields)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Debug("subject created", zap.String("id", fields.ID), zap.String("code", fields.Code))
	return &fields, nil
}

// Update replaces the fields of an existing subject, keeping its id.
func (s *SubjectService) Update(ctx context.Context, id string, req dto.SubjectRequest) (subject *models.Subject, err error) {
	if err := s.gate.enter(); err != nil {
		return nil, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("subject", "update", err) }()

	fields, err := s.parse(req)
	if err != nil {
		return nil, err
	}

	next := s.List()
	idx := indexOfSubject(next, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	fields.ID = id
	next[idx] = fields

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return &fields, nil
}

// Delete removes a subject. Deleting an unknown id is a no-op.
func (s *SubjectService) Delete(ctx context.Context, id string) (err error) {
	if err := s.gate.enter(); err != nil {
		return err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("subject", "delete", err) }()

	current := s.List()
	idx := indexOfSubject(current, id)
	if idx < 0 {
		return nil
	}
	next := append(current[:idx:idx], current[idx+1:]...)
	return s.commit(ctx, next)
}

// Reset empties the active set and removes its persisted entry.
func (s *SubjectService) Reset(ctx context.Context) (err error) {
	if err := s.gate.enter(); err != nil {
		return err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("subject", "reset", err) }()

	return s.clear(ctx)
}

// Handover passes a copy of the active set to fn and clears the set when fn succeeds.
// The set is left untouched when fn fails.
func (s *SubjectService) Handover(ctx context.Context, fn func(snapshot []models.Subject) error) error {
	if err := s.gate.enter(); err != nil {
		return err
	}
	defer s.gate.leave()

	if err := fn(s.List()); err != nil {
		return err
	}
	if err := s.clear(ctx); err != nil {
		s.logger.Error("archived subjects could not be cleared", zap.Error(err))
		return err
	}
	return nil
}

// Export renders the active set in its persisted JSON shape.
func (s *SubjectService) Export() ([]byte, error) {
	payload, err := json.Marshal(s.List())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to export subjects")
	}
	return payload, nil
}

// Import replaces the active set with payload. Every record is validated before anything is
// replaced; one bad record rejects the whole import.
func (s *SubjectService) Import(ctx context.Context, payload []byte) (imported []models.Subject, err error) {
	if err := s.gate.enter(); err != nil {
		return nil, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("subject", "import", err) }()

	var records []models.Subject
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "import must be a JSON array of subjects")
	}
	if records == nil {
		records = []models.Subject{}
	}

	seen := make(map[string]int, len(records))
	for i := range records {
		rec := &records[i]
		rec.Code = strings.TrimSpace(rec.Code)
		rec.Title = strings.TrimSpace(rec.Title)
		rec.ID = strings.TrimSpace(rec.ID)
		if err := validateSubject(*rec); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("record %d: %s", i, err.Error()))
		}
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if first, dup := seen[rec.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("record %d: id %q already used by record %d", i, rec.ID, first))
		}
		seen[rec.ID] = i
	}

	if err := s.commit(ctx, records); err != nil {
		return nil, err
	}
	s.logger.Info("subjects imported", zap.Int("count", len(records)))
	return models.CloneSubjects(records), nil
}

// Flush writes the current set, used when autosave is switched back on.
func (s *SubjectService) Flush(ctx context.Context) error {
	if err := s.gate.enter(); err != nil {
		return err
	}
	defer s.gate.leave()
	return s.commit(ctx, s.List())
}

func (s *SubjectService) commit(ctx context.Context, next []models.Subject) error {
	written, err := s.repo.Save(ctx, next)
	if err != nil {
		return appErrors.Internal(err, "failed to save subjects")
	}
	if !written {
		s.logger.Debug("autosave disabled, subjects kept in memory only")
	}
	s.mu.Lock()
	s.subjects = next
	s.mu.Unlock()
	s.publish(next)
	return nil
}

func (s *SubjectService) clear(ctx context.Context) error {
	if _, err := s.repo.Clear(ctx); err != nil {
		return appErrors.Internal(err, "failed to clear subjects")
	}
	s.mu.Lock()
	s.subjects = []models.Subject{}
	s.mu.Unlock()
	s.publish(nil)
	return nil
}

func (s *SubjectService) publish(subjects []models.Subject) {
	if o, ok := s.observer.(summaryObserver); ok {
		o.ObserveSummary(academic.Aggregate(subjects))
	}
}

func (s *SubjectService) parse(req dto.SubjectRequest) (models.Subject, error) {
	req.Code = dto.FormValue(req.Code.Trim())
	req.Title = dto.FormValue(req.Title.Trim())
	req.Grade = dto.FormValue(req.Grade.Trim())
	req.Units = dto.FormValue(req.Units.Trim())
	if err := s.validator.Struct(req); err != nil {
		return models.Subject{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	grade, err := strconv.ParseFloat(string(req.Grade), 64)
	if err != nil {
		return models.Subject{}, appErrors.Clone(appErrors.ErrValidation, "grade must be a number")
	}
	units, err := strconv.Atoi(string(req.Units))
	if err != nil {
		return models.Subject{}, appErrors.Clone(appErrors.ErrValidation, "units must be a whole number")
	}

	subject := models.Subject{Code: string(req.Code), Title: string(req.Title), Grade: grade, Units: units}
	if err := validateSubject(subject); err != nil {
		return models.Subject{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return subject, nil
}

func validateSubject(subject models.Subject) error {
	switch {
	case subject.Code == "":
		return fmt.Errorf("code is required")
	case subject.Title == "":
		return fmt.Errorf("title is required")
	case !models.IsValidGrade(subject.Grade):
		return fmt.Errorf("grade %.2f is not on the grading scale", subject.Grade)
	case !models.IsValidUnits(subject.Units):
		return fmt.Errorf("units must be between 1 and %d", models.MaxUnits)
	}
	return nil
}

func indexOfSubject(subjects []models.Subject, id string) int {
	for i := range subjects {
		if subjects[i].ID == id {
			return i
		}
	}
	return -1
}
