package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlot(t *testing.T) {
	ok := map[string]string{"9:00": "09:00", "09:00": "09:00", "23:59": "23:59", " 0:05 ": "00:05"}
	for in, want := range ok {
		got, err := NormalizeSlot(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"24:00", "9:60", "0900", "9h", ""} {
		_, err := NormalizeSlot(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestActiveToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d := func(s string) time.Time { v, _ := ParseDate(s); return v }
	endYesterday := d("2026-10-18")
	endToday := d("2026-10-19")

	schedules := []Schedule{
		{ID: "starts-today", IsActive: true, StartDate: d("2026-10-19")},
		{ID: "paused", IsActive: false, StartDate: d("2026-10-01")},
		{ID: "tomorrow", IsActive: true, StartDate: d("2026-10-20")},
		{ID: "ended", IsActive: true, StartDate: d("2026-10-01"), EndDate: &endYesterday},
		{ID: "ends-today", IsActive: true, StartDate: d("2026-10-01"), EndDate: &endToday},
	}

	got := ActiveToday(schedules, now)
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"starts-today", "ends-today"}, ids)

	assert.Equal(t, StatusUpcoming, schedules[2].Status(now))
	assert.Equal(t, StatusCompleted, schedules[3].Status(now))
	assert.Equal(t, StatusPaused, schedules[1].Status(now))
	assert.Equal(t, StatusActive, schedules[0].Status(now))
}

func TestDefaultTimesIsACopy(t *testing.T) {
	a := DefaultTimes(FrequencyOnceDaily)
	a[0] = "00:00"
	assert.Equal(t, []string{"09:00"}, DefaultTimes(FrequencyOnceDaily))
	assert.Equal(t, []string{"09:00"}, DefaultTimes(FrequencyAsNeeded))
}
