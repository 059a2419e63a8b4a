package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/interview-timetable-api/internal/middleware"
	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/internal/service"
	"github.com/noah-isme/interview-timetable-api/pkg/response"
)

const defaultKeepAlive = 15 * time.Second

// ScheduleHandler exposes the shared admin settings to every page.
type ScheduleHandler struct {
	state     *service.ScheduleState
	keepAlive time.Duration
}

// NewScheduleHandler constructs the handler. It panics without a state.
func NewScheduleHandler(state *service.ScheduleState) *ScheduleHandler {
	if state == nil {
		panic("handler: schedule handler requires a schedule state")
	}
	return &ScheduleHandler{state: state, keepAlive: defaultKeepAlive}
}

// Get godoc
// @Summary Current shared admin settings
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	snap := h.state.Snapshot()
	middleware.SetScheduleRevision(c, snap.Revision)
	response.JSON(c, http.StatusOK, snap, nil, middleware.ExtractMeta(c))
}

// Events godoc
// @Summary Stream shared admin settings as server-sent events
// @Description Emits a "schedule" event with the current snapshot, then one per change.
// @Tags Schedule
// @Produce text/event-stream
// @Success 200 {string} string
// @Router /schedule/events [get]
func (h *ScheduleHandler) Events(c *gin.Context) {
	updates, cancel := subscribeSnapshots(h.state)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(snap models.AdminSnapshot) {
		c.SSEvent("schedule", snap)
		c.Writer.Flush()
	}
	send(h.state.Snapshot())

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-updates:
			send(snap)
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}

// subscribeSnapshots forwards state changes to a single-slot channel. A slow
// reader only ever finds the newest snapshot pending.
func subscribeSnapshots(state *service.ScheduleState) (<-chan models.AdminSnapshot, func()) {
	feed := newLatestSnapshot()
	cancel := state.Subscribe(feed.offer)
	return feed.ch, cancel
}

type latestSnapshot struct {
	mu   sync.Mutex
	ch   chan models.AdminSnapshot
	seen uint64
}

func newLatestSnapshot() *latestSnapshot {
	return &latestSnapshot{ch: make(chan models.AdminSnapshot, 1)}
}

// offer replaces any pending snapshot. Revisions at or below the newest one
// already offered are ignored, so out-of-order notifications never win.
func (l *latestSnapshot) offer(snap models.AdminSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if snap.Revision <= l.seen {
		return
	}
	l.seen = snap.Revision
	select {
	case <-l.ch:
	default:
	}
	l.ch <- snap
}
