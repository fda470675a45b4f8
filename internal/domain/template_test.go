package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfWeek_Valid(t *testing.T) {
	for _, day := range Days {
		assert.True(t, day.Valid(), "day %q must be valid", day)
	}

	assert.False(t, DayOfWeek("Monday").Valid())
	assert.False(t, DayOfWeek("someday").Valid())
	assert.False(t, DayOfWeek("").Valid())
}

func TestDayOfWeek_OrderIndex(t *testing.T) {
	assert.Equal(t, 0, Monday.OrderIndex())
	assert.Equal(t, 6, Sunday.OrderIndex())
	assert.Equal(t, len(Days), DayOfWeek("someday").OrderIndex())
}

func TestDayOfWeekFromTime(t *testing.T) {
	// 2025-10-06 понедельник
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

	for i, want := range Days {
		date := monday.AddDate(0, 0, i)
		assert.Equal(t, want, DayOfWeekFromTime(date))
	}
}

func TestAvailabilityTemplate_FitsAtLeastOneSession(t *testing.T) {
	tpl := &AvailabilityTemplate{
		StartTime:              "09:00",
		EndTime:                "10:00",
		SessionDurationMinutes: 60,
	}
	assert.True(t, tpl.FitsAtLeastOneSession())

	tpl.SessionDurationMinutes = 61
	assert.False(t, tpl.FitsAtLeastOneSession())

	tpl.StartTime = "garbage"
	assert.False(t, tpl.FitsAtLeastOneSession())
}

func TestTimeSlot_IsAvailable(t *testing.T) {
	slot := &TimeSlot{State: StateActive}
	assert.True(t, slot.IsAvailable())

	slot.IsBooked = true
	assert.False(t, slot.IsAvailable())

	slot.IsBooked = false
	slot.State = StateDeleted
	assert.False(t, slot.IsAvailable())
}
