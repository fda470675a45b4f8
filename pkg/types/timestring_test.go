package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:05", "12:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, TimeString(s).Validate(), "expected %q to be valid", s)
	}

	invalid := []string{"", "24:00", "12:60", "9:00", "12:5", "12-30", "ab:cd", "12:30:00"}
	for _, s := range invalid {
		assert.ErrorIs(t, TimeString(s).Validate(), ErrInvalidFormat, "expected %q to be invalid", s)
	}
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:15")
	require.NoError(t, err)
	assert.Equal(t, "10:15", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2025, 10, 15, 9, 7, 42, 0, time.UTC)
	assert.Equal(t, TimeString("09:07"), NewTimeString(moment))
}

func TestTimeString_Minutes(t *testing.T) {
	cases := map[TimeString]int{
		"00:00": 0,
		"01:00": 60,
		"09:30": 570,
		"23:59": 1439,
	}
	for ts, want := range cases {
		got, err := ts.Minutes()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := TimeString("garbage").Minutes()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:00").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	got, err = TimeString("09:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	got, err = TimeString("10:00").AddMinutes(-60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), got)

	// Выход за пределы суток в обе стороны
	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrCrossesMidnight)

	_, err = TimeString("00:10").AddMinutes(-20)
	assert.ErrorIs(t, err, ErrCrossesMidnight)

	// 23:59 — последняя допустимая минута
	got, err = TimeString("23:00").AddMinutes(59)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:59"), got)

	_, err = TimeString("23:00").AddMinutes(60)
	assert.ErrorIs(t, err, ErrCrossesMidnight)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:29"))
	assert.True(t, TimeString("08:15").Equal("08:15"))

	// Лексикографическое сравнение корректно благодаря ведущим нулям
	assert.True(t, TimeString("09:59").IsBefore("10:00"))
}

func TestTimeString_IsZero(t *testing.T) {
	assert.True(t, TimeString("").IsZero())
	assert.False(t, TimeString("00:00").IsZero())
}
