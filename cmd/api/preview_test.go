package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previewFixture = `[
	{"medicine_name": "Metformin", "dosage": "500mg", "reminder_times": ["08:00", "20:00"], "start_date": "2026-10-01"},
	{"medicine_name": "Aspirin", "dosage": "75mg", "reminder_times": ["9:00"], "start_date": "2026-10-01", "is_active": false},
	{"medicine_name": "Amoxicillin", "dosage": "250mg", "reminder_times": ["08:00"], "start_date": "2026-09-01", "end_date": "2026-09-10"}
]`

func TestLoadPreviewSchedules(t *testing.T) {
	list, err := loadPreviewSchedules(strings.NewReader(previewFixture))
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "schedule-1", list[0].ID)
	assert.True(t, list[0].IsActive)
	assert.False(t, list[1].IsActive)
	require.NotNil(t, list[2].EndDate)
	assert.Nil(t, list[0].EndDate)
}

func TestLoadPreviewSchedules_BadDate(t *testing.T) {
	_, err := loadPreviewSchedules(strings.NewReader(`[{"medicine_name":"x","start_date":"19/10/2026"}]`))
	assert.Error(t, err)
}

func TestRunPreview_FiresOnMatchingMinute(t *testing.T) {
	list, err := loadPreviewSchedules(strings.NewReader(previewFixture))
	require.NoError(t, err)

	var out bytes.Buffer
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local)
	require.NoError(t, runPreview(&out, list, at))

	assert.Contains(t, out.String(), "1 of 3 reminders active today")
	assert.Contains(t, out.String(), "alarm: Metformin at 08:00")
}

func TestRunPreview_NoAlarm(t *testing.T) {
	list, err := loadPreviewSchedules(strings.NewReader(previewFixture))
	require.NoError(t, err)

	var out bytes.Buffer
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	require.NoError(t, runPreview(&out, list, at))

	// Aspirin está pausada: 09:00 no dispara
	assert.Contains(t, out.String(), "no alarm")
}
