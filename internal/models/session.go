package models

import (
	"time"

	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

// SessionSummary describes an open page session.
type SessionSummary struct {
	ID            string             `json:"id"`
	Role          Role               `json:"role"`
	Name          string             `json:"name"`
	Slots         timegrid.SlotSet   `json:"slots"`
	SelectedCount int                `json:"selected_count"`
	DraftDates    *timegrid.DateAxis `json:"draft_dates,omitempty"`
	Dragging      bool               `json:"dragging"`
	Revision      uint64             `json:"revision"`
	CreatedAt     time.Time          `json:"created_at"`
	LastSeenAt    time.Time          `json:"last_seen_at"`
}

// GridResult is returned by grid events.
type GridResult struct {
	Applied  bool             `json:"applied"`
	Dragging bool             `json:"dragging"`
	Slots    timegrid.SlotSet `json:"slots"`
	Revision uint64           `json:"revision"`
}

// GridView is a rendered grid tagged with the revisions it was built from.
type GridView struct {
	SessionID   string        `json:"session_id"`
	Role        Role          `json:"role"`
	Revision    uint64        `json:"revision"`
	ScheduleRev uint64        `json:"schedule_revision"`
	Grid        timegrid.View `json:"grid"`
}
