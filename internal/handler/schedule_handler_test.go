package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/internal/service"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

func TestScheduleEventsSendsCurrentSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	state := service.NewScheduleState(nil)
	state.SetDates(timegrid.NewDateAxis(day(19)))

	h := NewScheduleHandler(state)
	router := gin.New()
	router.GET("/schedule/events", h.Events)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/schedule/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event:schedule")
	assert.Contains(t, body, `"scheduled_dates":["2026-10-19"]`)
}

func TestSubscribeSnapshotsDeliversChanges(t *testing.T) {
	state := service.NewScheduleState(nil)
	updates, cancel := subscribeSnapshots(state)

	state.SetStart(&timegrid.TimeOfDay{Hour: 9})
	snap := <-updates
	assert.Equal(t, uint64(1), snap.Revision)
	require.NotNil(t, snap.StartTime)
	assert.Equal(t, 9, snap.StartTime.Hour)

	cancel()
	state.SetStart(nil)
	assert.Empty(t, updates)
}

func TestSubscribeSnapshotsKeepsLatestForSlowReader(t *testing.T) {
	state := service.NewScheduleState(nil)
	updates, cancel := subscribeSnapshots(state)
	defer cancel()

	for i := 0; i < 20; i++ {
		state.SetStart(&timegrid.TimeOfDay{Hour: 9})
	}
	state.SetStart(&timegrid.TimeOfDay{Hour: 10})

	require.Len(t, updates, 1)
	snap := <-updates
	assert.Equal(t, state.Snapshot().Revision, snap.Revision)
	require.NotNil(t, snap.StartTime)
	assert.Equal(t, 10, snap.StartTime.Hour)
	assert.Empty(t, updates)
}

func TestLatestSnapshotIgnoresOlderRevisions(t *testing.T) {
	feed := newLatestSnapshot()

	feed.offer(models.AdminSnapshot{Revision: 5})
	feed.offer(models.AdminSnapshot{Revision: 3})
	assert.Equal(t, uint64(5), (<-feed.ch).Revision)

	feed.offer(models.AdminSnapshot{Revision: 5})
	assert.Empty(t, feed.ch)

	feed.offer(models.AdminSnapshot{Revision: 6})
	feed.offer(models.AdminSnapshot{Revision: 7})
	assert.Equal(t, uint64(7), (<-feed.ch).Revision)
}

func TestNewScheduleHandlerPanicsWithoutState(t *testing.T) {
	assert.Panics(t, func() { NewScheduleHandler(nil) })
}
