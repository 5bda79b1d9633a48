package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, time.Thursday, d.Weekday())

	for _, bad := range []string{"", "2024-2-3", "2023-02-29", "03/01/2024"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.December, 30)
	assert.Equal(t, "2025-01-02", d.AddDays(3).String())
	assert.Equal(t, "2024-12-29", d.WeekStart().String())
	assert.Equal(t, "2024-12-01", d.FirstOfMonth().String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, 0, d.Compare(NewDate(2024, time.December, 30)))
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 30))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "09:00", want: "09:00"},
		{in: "9:05", want: "09:05"},
		{in: "23:59:59", want: "23:59"},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String())
	}

	for _, bad := range []string{"", "24:00", "12:60", "noon", "12"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestSessionWireFormat(t *testing.T) {
	s := Session{
		ID:              "42",
		TrainerID:       "7",
		Title:           "Yoga",
		ClientName:      "Sam",
		SessionType:     "group",
		Date:            NewDate(2024, time.January, 8),
		Time:            TimeOfDay{Hour: 7, Minute: 5},
		DurationMinutes: 45,
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "2024-01-08", fields["session_date"])
	assert.Equal(t, "07:05", fields["session_time"])
	assert.Equal(t, float64(45), fields["duration"])
	assert.Equal(t, "Sam", fields["client_name"])
	assert.Equal(t, "7", fields["trainer_id"])
	_, hasStatus := fields["status"]
	assert.False(t, hasStatus)

	var back Session
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, s.Date, back.Date)
	assert.Equal(t, s.Time, back.Time)
}

func TestSessionInterval(t *testing.T) {
	s := Session{Date: NewDate(2024, time.January, 1), Time: TimeOfDay{Hour: 23, Minute: 30}, DurationMinutes: 60}
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 30, 0, 0, time.UTC), s.EndsAt(time.UTC))
	assert.Equal(t, SessionScheduled, s.StoredStatus())
}

func TestParseSessionStatus(t *testing.T) {
	got, err := ParseSessionStatus("")
	require.NoError(t, err)
	assert.Equal(t, SessionScheduled, got)

	got, err = ParseSessionStatus("Started")
	require.NoError(t, err)
	assert.Equal(t, SessionStarted, got)

	_, err = ParseSessionStatus("paused")
	assert.Error(t, err)
}
