package generate_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/template"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTemplateRepo struct {
	template *domain.AvailabilityTemplate
	err      error
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.template, nil
}

type fakeSlotRepo struct {
	existing map[string]bool // ключ "date|start", имитирует уникальный индекс
	inserted []*domain.TimeSlot
	nextID   int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{existing: make(map[string]bool)}
}

func slotKey(date time.Time, start string) string {
	return date.Format(domain.DateFormat) + "|" + start
}

func (f *fakeSlotRepo) InsertIfAbsent(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	key := slotKey(slot.SlotDate, slot.StartTime.String())
	if f.existing[key] {
		return nil, slotRepo.ErrDuplicateSlot
	}
	f.existing[key] = true

	f.nextID++
	created := *slot
	created.ID = f.nextID
	f.inserted = append(f.inserted, &created)
	return &created, nil
}

func mondayTemplate() *domain.AvailabilityTemplate {
	return &domain.AvailabilityTemplate{
		ID:                     10,
		TherapistID:            1,
		DayOfWeek:              domain.Monday,
		StartTime:              "09:00",
		EndTime:                "10:10",
		SessionDurationMinutes: 30,
		BreakMinutes:           10,
		State:                  domain.StateActive,
	}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	// 2025-10-06 понедельник, 2025-10-19 воскресенье: два понедельника в диапазоне
	rangeStart := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)

	t.Run("создает слоты для каждого подходящего дня диапазона", func(t *testing.T) {
		slots := newFakeSlotRepo()
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, slots, nopLogger{})

		resp, err := uc.Execute(ctx, &Request{
			TherapistID: 1,
			TemplateID:  10,
			StartDate:   rangeStart,
			EndDate:     rangeEnd,
		})
		require.NoError(t, err)

		// 2 понедельника * 2 окна (09:00-09:30, 09:40-10:10)
		assert.Equal(t, 4, resp.CreatedCount)
		assert.Equal(t, 0, resp.SkippedCount)
		require.Len(t, resp.Created, 4)

		assert.Equal(t, "09:00", resp.Created[0].StartTime.String())
		assert.Equal(t, "09:30", resp.Created[0].EndTime.String())
		assert.Equal(t, "09:40", resp.Created[1].StartTime.String())
		assert.Equal(t, "10:10", resp.Created[1].EndTime.String())

		for _, s := range slots.inserted {
			assert.Equal(t, domain.Monday, domain.DayOfWeekFromTime(s.SlotDate))
			assert.Equal(t, int64(1), s.TherapistID)
			assert.Equal(t, int64(10), s.TemplateID)
			assert.Equal(t, domain.StateActive, s.State)
		}
	})

	t.Run("повторный вызов идемпотентен: все кандидаты пропускаются", func(t *testing.T) {
		slots := newFakeSlotRepo()
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, slots, nopLogger{})

		req := &Request{TherapistID: 1, TemplateID: 10, StartDate: rangeStart, EndDate: rangeEnd}

		first, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		require.Equal(t, 4, first.CreatedCount)

		second, err := uc.Execute(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, second.CreatedCount)
		assert.Equal(t, 4, second.SkippedCount)
		require.Len(t, second.Skipped, 4)
		assert.Equal(t, "09:00", second.Skipped[0].StartTime.String())
	})

	t.Run("перевернутый диапазон дает пустой результат без ошибки", func(t *testing.T) {
		slots := newFakeSlotRepo()
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, slots, nopLogger{})

		resp, err := uc.Execute(ctx, &Request{
			TherapistID: 1,
			TemplateID:  10,
			StartDate:   rangeEnd,
			EndDate:     rangeStart,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.CreatedCount)
		assert.Equal(t, 0, resp.SkippedCount)
	})

	t.Run("диапазон без нужного дня недели дает пустой результат", func(t *testing.T) {
		slots := newFakeSlotRepo()
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, slots, nopLogger{})

		// 2025-10-07 вторник .. 2025-10-12 воскресенье: ни одного понедельника
		resp, err := uc.Execute(ctx, &Request{
			TherapistID: 1,
			TemplateID:  10,
			StartDate:   time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.CreatedCount)
		assert.Empty(t, slots.inserted)
	})

	t.Run("шаблон не найден", func(t *testing.T) {
		uc := NewUseCase(
			&fakeTemplateRepo{err: templateRepo.ErrTemplateNotFound},
			newFakeSlotRepo(),
			nopLogger{},
		)

		_, err := uc.Execute(ctx, &Request{TherapistID: 1, TemplateID: 99, StartDate: rangeStart, EndDate: rangeEnd})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("чужой шаблон недоступен", func(t *testing.T) {
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, newFakeSlotRepo(), nopLogger{})

		_, err := uc.Execute(ctx, &Request{TherapistID: 2, TemplateID: 10, StartDate: rangeStart, EndDate: rangeEnd})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("удаленный шаблон не порождает слотов", func(t *testing.T) {
		tpl := mondayTemplate()
		tpl.State = domain.StateDeleted
		uc := NewUseCase(&fakeTemplateRepo{template: tpl}, newFakeSlotRepo(), nopLogger{})

		_, err := uc.Execute(ctx, &Request{TherapistID: 1, TemplateID: 10, StartDate: rangeStart, EndDate: rangeEnd})
		assert.ErrorIs(t, err, ErrTemplateDeleted)
	})

	t.Run("некорректный запрос отклоняется", func(t *testing.T) {
		uc := NewUseCase(&fakeTemplateRepo{template: mondayTemplate()}, newFakeSlotRepo(), nopLogger{})

		_, err := uc.Execute(ctx, &Request{TherapistID: 0, TemplateID: 10, StartDate: rangeStart, EndDate: rangeEnd})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = uc.Execute(ctx, &Request{TherapistID: 1, TemplateID: 10, EndDate: rangeEnd})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
