package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gwa-tracker/internal/dto"
	"github.com/noah-isme/gwa-tracker/internal/models"
	"github.com/noah-isme/gwa-tracker/internal/repository"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
	"github.com/noah-isme/gwa-tracker/pkg/kvstore"
)

type mockSubjectRepo struct {
	stored   []models.Subject
	saves    int
	clears   int
	saveErr  error
	clearErr error
	// entered and block, when set, announce Save and stall it until released.
	entered chan struct{}
	block   chan struct{}
}

func (m *mockSubjectRepo) Load(context.Context) ([]models.Subject, error) {
	return models.CloneSubjects(m.stored), nil
}

func (m *mockSubjectRepo) Save(_ context.Context, subjects []models.Subject) (bool, error) {
	if m.block != nil {
		close(m.entered)
		<-m.block
	}
	if m.saveErr != nil {
		return false, m.saveErr
	}
	m.saves++
	m.stored = models.CloneSubjects(subjects)
	return true, nil
}

func (m *mockSubjectRepo) Clear(context.Context) (bool, error) {
	if m.clearErr != nil {
		return false, m.clearErr
	}
	m.clears++
	m.stored = nil
	return true, nil
}

type recordingObserver struct {
	mu        sync.Mutex
	mutations []string
	summaries []models.Summary
}

func (r *recordingObserver) ObserveMutation(resource, op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, fmt.Sprintf("%s.%s:%v", resource, op, err == nil))
}

func (r *recordingObserver) ObserveSummary(summary models.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
}

func newTestSubjectService(repo subjectRepository) *SubjectService {
	svc := NewSubjectService(repo, validator.New(), zap.NewNop())
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("sub-%d", seq)
	}
	return svc
}

func subjectReq(code, title, grade, units string) dto.SubjectRequest {
	return dto.SubjectRequest{Code: dto.FormValue(code), Title: dto.FormValue(title), Grade: dto.FormValue(grade), Units: dto.FormValue(units)}
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)

	subject, err := svc.Create(context.Background(), subjectReq(" MATH101 ", "Calculus", "1.25", "3"))
	require.NoError(t, err)
	assert.Equal(t, models.Subject{ID: "sub-1", Code: "MATH101", Title: "Calculus", Grade: 1.25, Units: 3}, *subject)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, []models.Subject{*subject}, repo.stored)
	assert.Equal(t, 1.25, svc.Summary().GWA)
}

func TestSubjectServiceCreateValidation(t *testing.T) {
	cases := map[string]dto.SubjectRequest{
		"missing code":     subjectReq("", "Calculus", "1.25", "3"),
		"blank title":      subjectReq("MATH101", "   ", "1.25", "3"),
		"grade not number": subjectReq("MATH101", "Calculus", "A", "3"),
		"grade off scale":  subjectReq("MATH101", "Calculus", "1.30", "3"),
		"units not int":    subjectReq("MATH101", "Calculus", "1.25", "2.5"),
		"units zero":       subjectReq("MATH101", "Calculus", "1.25", "0"),
		"units negative":   subjectReq("MATH101", "Calculus", "1.25", "-3"),
		"units too large":  subjectReq("MATH101", "Calculus", "1.25", "11"),
		"units overflow":   subjectReq("MATH101", "Calculus", "1.00", "4611686018427387904"),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &mockSubjectRepo{}
			svc := newTestSubjectService(repo)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
			assert.Empty(t, svc.List())
			assert.Zero(t, repo.saves)
		})
	}
}

func TestSubjectServiceUpdate(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, subjectReq("MATH101", "Calculus", "1.25", "3"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, subjectReq("CS101", "Programming", "1.00", "3"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, first.ID, subjectReq("MATH102", "Calculus II", "2.00", "4"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.Subject{ID: first.ID, Code: "MATH102", Title: "Calculus II", Grade: 2, Units: 4}, list[0])
	assert.Equal(t, "CS101", list[1].Code)

	_, err = svc.Update(ctx, "missing", subjectReq("X", "Y", "1.00", "1"))
	assert.True(t, appErrors.IsKind(err, appErrors.ErrNotFound))

	_, err = svc.Update(ctx, first.ID, subjectReq("X", "Y", "9", "1"))
	assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
	assert.Equal(t, "MATH102", svc.List()[0].Code)
}

func TestSubjectServiceDelete(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	ctx := context.Background()

	a, _ := svc.Create(ctx, subjectReq("A", "Alpha", "1.00", "3"))
	b, _ := svc.Create(ctx, subjectReq("B", "Beta", "1.50", "3"))
	saves := repo.saves

	require.NoError(t, svc.Delete(ctx, "missing"))
	assert.Len(t, svc.List(), 2)
	assert.Equal(t, saves, repo.saves, "deleting an unknown id writes nothing")

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Equal(t, []models.Subject{*b}, svc.List())
	assert.Equal(t, []models.Subject{*b}, repo.stored)
}

func TestSubjectServiceReset(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	ctx := context.Background()

	_, _ = svc.Create(ctx, subjectReq("A", "Alpha", "1.00", "6"))
	_, _ = svc.Create(ctx, subjectReq("B", "Beta", "1.00", "6"))
	require.Equal(t, models.HonorUniversityScholar, svc.Summary().Honor)

	require.NoError(t, svc.Reset(ctx))
	assert.Empty(t, svc.List())
	assert.Equal(t, 1, repo.clears)
	assert.Equal(t, models.Summary{}, svc.Summary())
}

func TestSubjectServiceSaveFailureKeepsState(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	ctx := context.Background()
	_, _ = svc.Create(ctx, subjectReq("A", "Alpha", "1.00", "3"))

	repo.saveErr = errors.New("disk full")
	_, err := svc.Create(ctx, subjectReq("B", "Beta", "1.00", "3"))
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrInternal))
	assert.Len(t, svc.List(), 1)
}

func TestSubjectServiceRejectsConcurrentMutation(t *testing.T) {
	repo := &mockSubjectRepo{entered: make(chan struct{}), block: make(chan struct{})}
	svc := newTestSubjectService(repo)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Create(ctx, subjectReq("A", "Alpha", "1.00", "3"))
		done <- err
	}()

	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		t.Fatal("first mutation never reached the repository")
	}

	assert.True(t, appErrors.IsKind(svc.Delete(ctx, "anything"), appErrors.ErrBusy))
	_, err := svc.Create(ctx, subjectReq("B", "Beta", "1.00", "3"))
	assert.True(t, appErrors.IsKind(err, appErrors.ErrBusy))

	close(repo.block)
	require.NoError(t, <-done)
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, "A", svc.List()[0].Code)
}

func TestSubjectServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestSubjectService(&mockSubjectRepo{})
	_, _ = source.Create(ctx, subjectReq("MATH101", "Calculus", "1.25", "3"))
	_, _ = source.Create(ctx, subjectReq("CS101", "Programming", "1.50", "4"))
	_, _ = source.Create(ctx, subjectReq("PE1", "Swimming", "5.00", "2"))

	payload, err := source.Export()
	require.NoError(t, err)

	target := newTestSubjectService(&mockSubjectRepo{})
	_, _ = target.Create(ctx, subjectReq("OLD", "Old", "3.00", "3"))
	imported, err := target.Import(ctx, payload)
	require.NoError(t, err)
	assert.Len(t, imported, 3)
	assert.Equal(t, source.List(), target.List())
}

func TestSubjectServiceImportIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	_, _ = svc.Create(ctx, subjectReq("KEEP", "Keep me", "1.00", "3"))
	before := svc.List()

	payloads := map[string]string{
		"not json":      `{`,
		"not an array":  `{"id":"x"}`,
		"bad grade":     `[{"id":"a","code":"A","title":"A","grade":1.25,"units":3},{"id":"b","code":"B","title":"B","grade":1.3,"units":3}]`,
		"missing title": `[{"id":"a","code":"A","title":"","grade":1.25,"units":3}]`,
		"zero units":    `[{"id":"a","code":"A","title":"A","grade":1.25,"units":0}]`,
		"huge units":    `[{"id":"a","code":"A","title":"A","grade":1,"units":4611686018427387904},{"id":"b","code":"B","title":"B","grade":1,"units":4611686018427387904}]`,
		"duplicate id":  `[{"id":"a","code":"A","title":"A","grade":1.25,"units":3},{"id":"a","code":"B","title":"B","grade":1.5,"units":3}]`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Import(ctx, []byte(payload))
			require.Error(t, err)
			assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
			assert.Equal(t, before, svc.List())
		})
	}
}

func TestSubjectServiceImportAssignsMissingIDs(t *testing.T) {
	svc := newTestSubjectService(&mockSubjectRepo{})
	imported, err := svc.Import(context.Background(), []byte(`[{"code":"A","title":"Alpha","grade":2,"units":3}]`))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "sub-1", imported[0].ID)
}

func TestSubjectServiceHandover(t *testing.T) {
	ctx := context.Background()
	repo := &mockSubjectRepo{}
	svc := newTestSubjectService(repo)
	_, _ = svc.Create(ctx, subjectReq("A", "Alpha", "1.00", "3"))

	err := svc.Handover(ctx, func(snapshot []models.Subject) error {
		require.Len(t, snapshot, 1)
		return appErrors.Clone(appErrors.ErrDuplicate, "taken")
	})
	assert.True(t, appErrors.IsKind(err, appErrors.ErrDuplicate))
	assert.Len(t, svc.List(), 1)

	var captured []models.Subject
	require.NoError(t, svc.Handover(ctx, func(snapshot []models.Subject) error {
		captured = snapshot
		return nil
	}))
	assert.Empty(t, svc.List())
	assert.Len(t, captured, 1)
	assert.Equal(t, 1, repo.clears)
}

func TestSubjectServiceLoadAndObserver(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := repository.NewSubjectRepository(store, "gwa_subjects", nil)
	_, err := repo.Save(ctx, []models.Subject{{ID: "x", Code: "X", Title: "X", Grade: 1.75, Units: 12}})
	require.NoError(t, err)

	obs := &recordingObserver{}
	svc := NewSubjectService(repo, nil, nil).WithObserver(obs)
	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, models.HonorCollegeScholar, svc.Summary().Honor)

	subject, err := svc.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "X", subject.Code)
	_, err = svc.Get("nope")
	assert.True(t, appErrors.IsKind(err, appErrors.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, "x"))
	assert.Equal(t, []string{"subject.delete:true"}, obs.mutations)
	require.Len(t, obs.summaries, 2)
	assert.Equal(t, 1.75, obs.summaries[0].GWA)
	assert.Equal(t, 0.0, obs.summaries[1].GWA)
}
