package timeslots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeSlotRepo struct {
	slot      *domain.TimeSlot
	getErr    error
	updateErr error
	deleteErr error

	lastFilter *domain.SlotFilter
	filtered   []*domain.TimeSlot

	updated *domain.TimeSlot
	deleted []int64
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.slot
	return &copied, nil
}

func (f *fakeSlotRepo) GetByTherapistWithFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	f.lastFilter = &filter
	return f.filtered, nil
}

func (f *fakeSlotRepo) Update(ctx context.Context, slot *domain.TimeSlot) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := *slot
	f.updated = &stored
	f.slot = &stored
	return nil
}

func (f *fakeSlotRepo) SoftDelete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

func activeSlot() *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:          7,
		TherapistID: 1,
		TemplateID:  10,
		SlotDate:    time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "09:30",
		State:       domain.StateActive,
	}
}

func TestService_GetAvailableSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("фильтр отсекает занятые и прошедшие слоты", func(t *testing.T) {
		repo := &fakeSlotRepo{filtered: []*domain.TimeSlot{activeSlot()}}
		svc := NewService(repo, nopLogger{})
		svc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 3, 15, 42, 0, 0, time.UTC)}

		resp, err := svc.GetAvailableSlots(ctx, &models.GetAvailableSlotsRequest{TherapistID: 1})
		require.NoError(t, err)
		require.Len(t, resp.Slots, 1)
		assert.Equal(t, "2025-10-06", resp.Slots[0].SlotDate)

		require.NotNil(t, repo.lastFilter)
		require.NotNil(t, repo.lastFilter.IsBooked)
		assert.False(t, *repo.lastFilter.IsBooked)
		require.NotNil(t, repo.lastFilter.FromDate)
		assert.Equal(t, time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC), *repo.lastFilter.FromDate)
	})

	t.Run("диапазон дат передается в фильтр", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		svc := NewService(repo, nopLogger{})
		svc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC)}

		start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
		_, err := svc.GetAvailableSlots(ctx, &models.GetAvailableSlotsRequest{
			TherapistID: 1,
			StartDate:   &start,
			EndDate:     &end,
		})
		require.NoError(t, err)

		require.NotNil(t, repo.lastFilter.StartDate)
		assert.Equal(t, start, *repo.lastFilter.StartDate)
		require.NotNil(t, repo.lastFilter.EndDate)
		assert.Equal(t, end, *repo.lastFilter.EndDate)
	})

	t.Run("некорректный therapistID отклоняется", func(t *testing.T) {
		svc := NewService(&fakeSlotRepo{}, nopLogger{})

		_, err := svc.GetAvailableSlots(ctx, &models.GetAvailableSlotsRequest{TherapistID: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetTherapistSlots(t *testing.T) {
	ctx := context.Background()

	repo := &fakeSlotRepo{filtered: []*domain.TimeSlot{activeSlot()}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetTherapistSlots(ctx, &models.GetTherapistSlotsRequest{
		TherapistID: 1,
		IsBooked:    ptr.Ptr(true),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)

	// Терапевт видит и прошедшие слоты: нижняя граница даты не ставится
	require.NotNil(t, repo.lastFilter)
	assert.Nil(t, repo.lastFilter.FromDate)
	require.NotNil(t, repo.lastFilter.IsBooked)
	assert.True(t, *repo.lastFilter.IsBooked)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное изменение времени", func(t *testing.T) {
		repo := &fakeSlotRepo{slot: activeSlot()}
		svc := NewService(repo, nopLogger{})

		resp, err := svc.Update(ctx, 7, 1, &models.UpdateSlotRequest{
			StartTime: ptr.Ptr("10:00"),
			EndTime:   ptr.Ptr("10:30"),
		})
		require.NoError(t, err)
		assert.Equal(t, "10:00", resp.StartTime)
		assert.Equal(t, "10:30", resp.EndTime)
	})

	t.Run("занятый слот изменить нельзя", func(t *testing.T) {
		slot := activeSlot()
		slot.IsBooked = true
		repo := &fakeSlotRepo{slot: slot}
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 7, 1, &models.UpdateSlotRequest{StartTime: ptr.Ptr("10:00")})
		assert.ErrorIs(t, err, ErrSlotBooked)
		assert.Nil(t, repo.updated)
	})

	t.Run("конфликт с существующим слотом", func(t *testing.T) {
		repo := &fakeSlotRepo{slot: activeSlot(), updateErr: slotRepo.ErrDuplicateSlot}
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 7, 1, &models.UpdateSlotRequest{StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("10:30")})
		assert.ErrorIs(t, err, ErrDuplicateSlot)
	})

	t.Run("некорректный порядок времен отклоняется", func(t *testing.T) {
		repo := &fakeSlotRepo{slot: activeSlot()}
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 7, 1, &models.UpdateSlotRequest{
			StartTime: ptr.Ptr("11:00"),
			EndTime:   ptr.Ptr("10:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("чужой слот недоступен", func(t *testing.T) {
		repo := &fakeSlotRepo{slot: activeSlot()}
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 7, 2, &models.UpdateSlotRequest{StartTime: ptr.Ptr("10:00")})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("слот не найден", func(t *testing.T) {
		repo := &fakeSlotRepo{getErr: slotRepo.ErrSlotNotFound}
		svc := NewService(repo, nopLogger{})

		_, err := svc.Update(ctx, 99, 1, &models.UpdateSlotRequest{StartTime: ptr.Ptr("10:00")})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление свободного слота", func(t *testing.T) {
		repo := &fakeSlotRepo{slot: activeSlot()}
		svc := NewService(repo, nopLogger{})

		require.NoError(t, svc.Delete(ctx, 7, 1))
		assert.Equal(t, []int64{7}, repo.deleted)
	})

	t.Run("занятый слот удалить нельзя", func(t *testing.T) {
		slot := activeSlot()
		slot.IsBooked = true
		repo := &fakeSlotRepo{slot: slot}
		svc := NewService(repo, nopLogger{})

		err := svc.Delete(ctx, 7, 1)
		assert.ErrorIs(t, err, ErrSlotBooked)
		assert.Empty(t, repo.deleted)
	})

	t.Run("удаленный слот считается не найденным", func(t *testing.T) {
		slot := activeSlot()
		slot.State = domain.StateDeleted
		repo := &fakeSlotRepo{slot: slot}
		svc := NewService(repo, nopLogger{})

		err := svc.Delete(ctx, 7, 1)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}
