package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gwa-tracker/internal/academic"
	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
)

const duplicateSemesterMessage = "A semester for this school year and semester already exists. Please choose a different combination."

type semesterRepository interface {
	Load(ctx context.Context) ([]models.Semester, error)
	Save(ctx context.Context, semesters []models.Semester) (bool, error)
}

type subjectHandover interface {
	Handover(ctx context.Context, fn func(snapshot []models.Subject) error) error
}

// SemesterService keeps the archive of past semesters.
type SemesterService struct {
	repo      semesterRepository
	subjects  subjectHandover
	validator *validator.Validate
	logger    *zap.Logger
	observer  mutationObserver
	newID     func() string

	gate      mutationGate
	mu        sync.RWMutex
	semesters []models.Semester
}

// NewSemesterService constructs SemesterService.
func NewSemesterService(repo semesterRepository, subjects subjectHandover, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{
		repo:      repo,
		subjects:  subjects,
		validator: validate,
		logger:    logger,
		observer:  nopObserver{},
		newID:     uuid.NewString,
		gate:      mutationGate{resource: "semester"},
		semesters: []models.Semester{},
	}
}

// WithObserver reports mutation outcomes to o.
func (s *SemesterService) WithObserver(o mutationObserver) *SemesterService {
	if o != nil {
		s.observer = o
	}
	return s
}

// Load replaces the in-memory archive with the persisted one.
func (s *SemesterService) Load(ctx context.Context) error {
	semesters, err := s.repo.Load(ctx)
	if err != nil {
		return appErrors.Internal(err, "failed to load semesters")
	}
	s.mu.Lock()
	s.semesters = semesters
	s.mu.Unlock()
	s.logger.Info("semesters loaded", zap.Int("count", len(semesters)))
	return nil
}

// List returns the archive in display order, each semester with its own summary.
func (s *SemesterService) List() []models.SemesterView {
	semesters := s.snapshot()
	SortSemesters(semesters)
	views := make([]models.SemesterView, 0, len(semesters))
	for _, sem := range semesters {
		views = append(views, models.SemesterView{Semester: sem, Summary: academic.Aggregate(sem.Subjects)})
	}
	return views
}

// Count returns the number of archived semesters.
func (s *SemesterService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.semesters)
}

// Get returns one archived semester.
func (s *SemesterService) Get(id string) (*models.SemesterView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := indexOfSemester(s.semesters, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
	}
	sem := s.semesters[idx].Clone()
	return &models.SemesterView{Semester: sem, Summary: academic.Aggregate(sem.Subjects)}, nil
}

// ArchiveCurrent stores the active subjects as a new semester and clears the active set.
// Nothing changes when the label is invalid or already taken, or when the active set cannot be
// cleared: the new semester is withdrawn again in that case.
func (s *SemesterService) ArchiveCurrent(ctx context.Context, req dto.SemesterRequest) (archived *models.Semester, err error) {
	if err := s.gate.enter(); err != nil {
		return nil, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("semester", "archive", err) }()

	term, schoolYear, err := s.parseLabel(req)
	if err != nil {
		return nil, err
	}

	var (
		created  models.Semester
		previous []models.Semester
		appended bool
	)
	err = s.subjects.Handover(ctx, func(snapshot []models.Subject) error {
		if len(snapshot) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "there are no subjects to archive")
		}
		current := s.snapshot()
		if labelTaken(current, term, schoolYear, "") {
			return appErrors.Clone(appErrors.ErrDuplicate, duplicateSemesterMessage)
		}
		created = models.Semester{
			ID:         s.newID(),
			SchoolYear: schoolYear,
			Semester:   term,
			Subjects:   models.CloneSubjects(snapshot),
		}
		if err := s.commit(ctx, append(current, created)); err != nil {
			return err
		}
		previous, appended = current, true
		return nil
	})
	if err != nil {
		if appended {
			if rbErr := s.commit(ctx, previous); rbErr != nil {
				s.logger.Error("archived semester could not be withdrawn",
					zap.String("id", created.ID), zap.Error(rbErr))
			}
		}
		return nil, err
	}

	s.logger.Info("semester archived",
		zap.String("id", created.ID),
		zap.String("school_year", created.SchoolYear),
		zap.String("semester", string(created.Semester)),
		zap.Int("subjects", len(created.Subjects)),
	)
	out := created.Clone()
	return &out, nil
}

// Rename relabels an archived semester; its subjects are never touched.
func (s *SemesterService) Rename(ctx context.Context, id string, req dto.SemesterRequest) (renamed *models.Semester, err error) {
	if err := s.gate.enter(); err != nil {
		return nil, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("semester", "rename", err) }()

	term, schoolYear, err := s.parseLabel(req)
	if err != nil {
		return nil, err
	}

	next := s.snapshot()
	idx := indexOfSemester(next, id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
	}
	if labelTaken(next, term, schoolYear, id) {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, duplicateSemesterMessage)
	}
	next[idx].Semester = term
	next[idx].SchoolYear = schoolYear

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	out := next[idx].Clone()
	return &out, nil
}

// Delete removes an archived semester; unknown ids are a no-op.
func (s *SemesterService) Delete(ctx context.Context, id string) (result dto.SemesterDeleteResult, err error) {
	if err := s.gate.enter(); err != nil {
		return dto.SemesterDeleteResult{}, err
	}
	defer s.gate.leave()
	defer func() { s.observer.ObserveMutation("semester", "delete", err) }()

	current := s.snapshot()
	idx := indexOfSemester(current, id)
	if idx < 0 {
		return dto.SemesterDeleteResult{Remaining: len(current), FallbackToCurrent: len(current) == 0}, nil
	}
	next := append(current[:idx:idx], current[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return dto.SemesterDeleteResult{}, err
	}
	return dto.SemesterDeleteResult{Removed: true, Remaining: len(next), FallbackToCurrent: len(next) == 0}, nil
}

// Flush writes the current archive, used when autosave is switched back on.
func (s *SemesterService) Flush(ctx context.Context) error {
	if err := s.gate.enter(); err != nil {
		return err
	}
	defer s.gate.leave()
	return s.commit(ctx, s.snapshot())
}

// SchoolYears lists the labels offered for new archives.
func (s *SemesterService) SchoolYears(now time.Time, count int) []string {
	return models.RecentSchoolYears(now, count)
}

func (s *SemesterService) parseLabel(req dto.SemesterRequest) (models.Term, string, error) {
	req.Semester = strings.TrimSpace(req.Semester)
	req.SchoolYear = strings.TrimSpace(req.SchoolYear)
	if err := s.validator.Struct(req); err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}
	if _, err := models.ParseSchoolYear(req.SchoolYear); err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return models.Term(req.Semester), req.SchoolYear, nil
}

func (s *SemesterService) commit(ctx context.Context, next []models.Semester) error {
	written, err := s.repo.Save(ctx, next)
	if err != nil {
		return appErrors.Internal(err, "failed to save semesters")
	}
	if !written {
		s.logger.Debug("autosave disabled, semesters kept in memory only")
	}
	s.mu.Lock()
	s.semesters = next
	s.mu.Unlock()
	return nil
}

func (s *SemesterService) snapshot() []models.Semester {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Semester, len(s.semesters))
	for i, sem := range s.semesters {
		out[i] = sem.Clone()
	}
	return out
}

// SortSemesters orders semesters newest school year first, then Third, Second, First.
func SortSemesters(semesters []models.Semester) {
	sort.SliceStable(semesters, func(i, j int) bool {
		yi, yj := semesters[i].StartYear(), semesters[j].StartYear()
		if yi != yj {
			return yi > yj
		}
		return semesters[i].Semester.Rank() > semesters[j].Semester.Rank()
	})
}

func labelTaken(semesters []models.Semester, term models.Term, schoolYear, excludeID string) bool {
	for _, sem := range semesters {
		if sem.ID == excludeID {
			continue
		}
		if sem.Semester == term && sem.SchoolYear == schoolYear {
			return true
		}
	}
	return false
}

func indexOfSemester(semesters []models.Semester, id string) int {
	for i := range semesters {
		if semesters[i].ID == id {
			return i
		}
	}
	return -1
}
