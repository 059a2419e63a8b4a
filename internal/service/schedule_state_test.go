package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

func d(day int) timegrid.Date {
	return timegrid.Date{Year: 2026, Month: time.October, Day: day}
}

func at(hour, minute int) *timegrid.TimeOfDay {
	return &timegrid.TimeOfDay{Hour: hour, Minute: minute}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestScheduleStateNotifiesObserversInOrder(t *testing.T) {
	state := NewScheduleState(zap.NewNop())

	var calls []string
	cancelFirst := state.Subscribe(func(snap models.AdminSnapshot) {
		calls = append(calls, "first")
	})
	state.Subscribe(func(snap models.AdminSnapshot) {
		calls = append(calls, "second")
	})

	snap := state.SetDates(timegrid.NewDateAxis(d(21), d(19)))
	assert.Equal(t, uint64(1), snap.Revision)
	assert.Equal(t, []timegrid.Date{d(19), d(21)}, snap.ScheduledDates.Dates())
	assert.Equal(t, []string{"first", "second"}, calls)

	cancelFirst()
	cancelFirst()
	state.SetStart(at(9, 0))
	assert.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestScheduleStateSnapshotIsACopy(t *testing.T) {
	state := NewScheduleState(nil)
	start := at(9, 0)
	state.SetStart(start)
	start.Hour = 11

	snap := state.Snapshot()
	require.NotNil(t, snap.StartTime)
	assert.Equal(t, 9, snap.StartTime.Hour)

	snap.StartTime.Hour = 15
	assert.Equal(t, 9, state.Snapshot().StartTime.Hour)
}

func TestScheduleStateResetClearsEverything(t *testing.T) {
	state := NewScheduleState(nil)
	state.Commit(
		timegrid.NewSlotSet(timegrid.Slot{Date: d(19), Hour: 9, State: true}),
		timegrid.NewDateAxis(d(19)),
	)
	state.SetWindow(timegrid.Window{Start: at(9, 0), End: at(12, 0)})

	snap := state.ResetAdminSettings()
	assert.Equal(t, uint64(3), snap.Revision)
	assert.Equal(t, 0, snap.BlockedSlots.Len())
	assert.Equal(t, 0, snap.ScheduledDates.Len())
	assert.Nil(t, snap.StartTime)
	assert.Nil(t, snap.EndTime)
}

func TestScheduleStateApplySeedUpgradesLegacyRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	raw := `{
		"blocked_slots": [
			{"day": 0, "hour": 9, "minute": 0, "blocked": true},
			{"day": 2, "hour": 10, "minute": 30, "blocked": true}
		],
		"scheduled_dates": ["2026-10-21", "2026-10-19"],
		"start_time": "09:00",
		"end_time": "12:00"
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	seed, err := LoadScheduleSeed(path)
	require.NoError(t, err)

	state := NewScheduleState(nil)
	state.now = fixedClock(time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC))

	snap, err := state.ApplySeed(seed)
	require.NoError(t, err)
	assert.True(t, snap.BlockedSlots.State(d(19), 9, 0))
	assert.True(t, snap.BlockedSlots.State(d(21), 10, 30))
	assert.Equal(t, []timegrid.Date{d(19), d(21)}, snap.ScheduledDates.Dates())
	assert.Equal(t, "09:00", snap.StartTime.String())
	assert.Equal(t, "12:00", snap.EndTime.String())
}

func TestScheduleStateApplySeedRejectsBadTimes(t *testing.T) {
	state := NewScheduleState(nil)
	_, err := state.ApplySeed(models.ScheduleSeed{StartTime: at(9, 15)})
	assert.Error(t, err)
	assert.Equal(t, uint64(0), state.Snapshot().Revision)
}

func TestLoadScheduleSeedMissingFile(t *testing.T) {
	_, err := LoadScheduleSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
