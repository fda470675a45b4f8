package templates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/template"
	"github.com/m04kA/TMS-SchedulingService/internal/service/templates/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTemplateRepo struct {
	byID      map[int64]*domain.AvailabilityTemplate
	list      []*domain.AvailabilityTemplate
	createErr error
	updateErr error
	deleteErr error

	updated *domain.AvailabilityTemplate
	deleted []int64
	nextID  int64
}

func newFakeTemplateRepo(templates ...*domain.AvailabilityTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{byID: make(map[int64]*domain.AvailabilityTemplate), nextID: 100}
	for _, tpl := range templates {
		f.byID[tpl.ID] = tpl
		f.list = append(f.list, tpl)
	}
	return f
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	stored := *tpl
	stored.ID = f.nextID
	stored.CreatedAt = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.byID[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityTemplate, error) {
	tpl, ok := f.byID[id]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (f *fakeTemplateRepo) GetByTherapistID(ctx context.Context, therapistID int64) ([]*domain.AvailabilityTemplate, error) {
	var out []*domain.AvailabilityTemplate
	for _, tpl := range f.list {
		if tpl.TherapistID == therapistID && tpl.State == domain.StateActive {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, tpl *domain.AvailabilityTemplate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := *tpl
	f.updated = &stored
	f.byID[tpl.ID] = &stored
	return nil
}

func (f *fakeTemplateRepo) SoftDelete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	if tpl, ok := f.byID[id]; ok {
		tpl.State = domain.StateDeleted
	}
	return nil
}

func activeTemplate() *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		ID:                     10,
		TherapistID:            1,
		DayOfWeek:              domain.Monday,
		StartTime:              "09:00",
		EndTime:                "17:00",
		SessionDurationMinutes: 50,
		BreakMinutes:           10,
		State:                  domain.StateActive,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное создание", func(t *testing.T) {
		repo := newFakeTemplateRepo()
		svc := NewService(repo, nopLogger{})

		resp, err := svc.Create(ctx, 1, &models.CreateTemplateRequest{
			DayOfWeek:              "monday",
			StartTime:              "09:00",
			EndTime:                "17:00",
			SessionDurationMinutes: 50,
			BreakMinutes:           10,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.TherapistID)
		assert.Equal(t, "monday", resp.DayOfWeek)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, 50, resp.SessionDurationMinutes)
		assert.NotZero(t, resp.ID)
	})

	t.Run("отклоняет некорректные данные", func(t *testing.T) {
		repo := newFakeTemplateRepo()
		svc := NewService(repo, nopLogger{})

		cases := []models.CreateTemplateRequest{
			{DayOfWeek: "someday", StartTime: "09:00", EndTime: "17:00", SessionDurationMinutes: 50},
			{DayOfWeek: "monday", StartTime: "9:00", EndTime: "17:00", SessionDurationMinutes: 50},
			{DayOfWeek: "monday", StartTime: "17:00", EndTime: "09:00", SessionDurationMinutes: 50},
			{DayOfWeek: "monday", StartTime: "09:00", EndTime: "17:00", SessionDurationMinutes: 10},
			{DayOfWeek: "monday", StartTime: "09:00", EndTime: "17:00", SessionDurationMinutes: 300},
			{DayOfWeek: "monday", StartTime: "09:00", EndTime: "17:00", SessionDurationMinutes: 50, BreakMinutes: 90},
			// Рабочее окно короче одной сессии
			{DayOfWeek: "monday", StartTime: "09:00", EndTime: "09:30", SessionDurationMinutes: 50},
		}

		for _, req := range cases {
			_, err := svc.Create(ctx, 1, &req)
			assert.ErrorIs(t, err, ErrInvalidInput, "request %+v must be rejected", req)
		}
	})
}

func TestService_GetTherapistTemplates(t *testing.T) {
	ctx := context.Background()

	deleted := activeTemplate()
	deleted.ID = 11
	deleted.State = domain.StateDeleted

	repo := newFakeTemplateRepo(activeTemplate(), deleted)
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetTherapistTemplates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, resp.Templates, 1)
	assert.Equal(t, int64(10), resp.Templates[0].ID)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("частичное обновление сохраняет незатронутые поля", func(t *testing.T) {
		repo := newFakeTemplateRepo(activeTemplate())
		svc := NewService(repo, nopLogger{})

		resp, err := svc.Update(ctx, 10, 1, &models.UpdateTemplateRequest{
			EndTime: ptr.Ptr("18:00"),
		})
		require.NoError(t, err)

		assert.Equal(t, "18:00", resp.EndTime)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, "monday", resp.DayOfWeek)
		assert.Equal(t, 50, resp.SessionDurationMinutes)
	})

	t.Run("комбинация старых и новых полей валидируется целиком", func(t *testing.T) {
		repo := newFakeTemplateRepo(activeTemplate())
		svc := NewService(repo, nopLogger{})

		// Новое endTime делает окно короче существующей сессии
		_, err := svc.Update(ctx, 10, 1, &models.UpdateTemplateRequest{
			EndTime: ptr.Ptr("09:30"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, repo.updated)
	})

	t.Run("чужой шаблон недоступен", func(t *testing.T) {
		repo := newFakeTemplateRepo(activeTemplate())
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 10, 2, &models.UpdateTemplateRequest{EndTime: ptr.Ptr("18:00")})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("шаблон не найден", func(t *testing.T) {
		repo := newFakeTemplateRepo()
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 99, 1, &models.UpdateTemplateRequest{EndTime: ptr.Ptr("18:00")})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("удаленный шаблон считается не найденным", func(t *testing.T) {
		tpl := activeTemplate()
		tpl.State = domain.StateDeleted
		repo := newFakeTemplateRepo(tpl)
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 10, 1, &models.UpdateTemplateRequest{EndTime: ptr.Ptr("18:00")})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление", func(t *testing.T) {
		repo := newFakeTemplateRepo(activeTemplate())
		svc := NewService(repo, nopLogger{})

		require.NoError(t, svc.Delete(ctx, 10, 1))
		assert.Equal(t, []int64{10}, repo.deleted)
	})

	t.Run("чужой шаблон недоступен", func(t *testing.T) {
		repo := newFakeTemplateRepo(activeTemplate())
		svc := NewService(repo, nopLogger{})

		err := svc.Delete(ctx, 10, 2)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, repo.deleted)
	})
}
