package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMondayIndex(t *testing.T) {
	// The weekday convention is Monday=0 through Sunday=6. Pinning this
	// here because an off-by-one weekday silently shifts every schedule.
	assert.Equal(t, 0, MondayIndex(time.Monday))
	assert.Equal(t, 1, MondayIndex(time.Tuesday))
	assert.Equal(t, 5, MondayIndex(time.Saturday))
	assert.Equal(t, 6, MondayIndex(time.Sunday))
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("08:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 8, Minute: 30}, ct)
	assert.Equal(t, 510, ct.Minutes())

	ct, err = ParseClockTime("10:05:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 10, Minute: 5}, ct)

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)
	_, err = ParseClockTime("bogus")
	assert.Error(t, err)
}

func TestClockTimeScan(t *testing.T) {
	var ct ClockTime
	require.NoError(t, ct.Scan("19:00:00"))
	assert.Equal(t, ClockTime{Hour: 19, Minute: 0}, ct)

	require.NoError(t, ct.Scan([]byte("20:45:00")))
	assert.Equal(t, ClockTime{Hour: 20, Minute: 45}, ct)

	require.NoError(t, ct.Scan(time.Date(2000, 1, 1, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, ClockTime{Hour: 14, Minute: 0}, ct)

	assert.Error(t, ct.Scan(42))
}

func TestClassSessionContainsIsBoundaryInclusive(t *testing.T) {
	session := ClassSession{
		StartTime: ClockTime{Hour: 8, Minute: 30},
		EndTime:   ClockTime{Hour: 10, Minute: 5},
	}

	assert.True(t, session.Contains(session.StartTime.Minutes()), "exact start is in session")
	assert.True(t, session.Contains(session.EndTime.Minutes()), "exact end is in session")
	assert.True(t, session.Contains(9*60))
	assert.False(t, session.Contains(session.StartTime.Minutes()-1))
	assert.False(t, session.Contains(session.EndTime.Minutes()+1))
}

func TestVerdictStatusRecordable(t *testing.T) {
	assert.True(t, VerdictPresent.Recordable())
	assert.True(t, VerdictLate.Recordable())
	assert.True(t, VerdictAbsent.Recordable())
	assert.False(t, VerdictNoClass.Recordable())
	assert.False(t, VerdictError.Recordable())
}
