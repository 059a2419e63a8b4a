package models

import (
	"time"

	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

// AdminSnapshot is a read-only copy of the shared admin settings.
type AdminSnapshot struct {
	Revision       uint64              `json:"revision"`
	BlockedSlots   timegrid.SlotSet    `json:"blocked_slots"`
	ScheduledDates timegrid.DateAxis   `json:"scheduled_dates"`
	StartTime      *timegrid.TimeOfDay `json:"start_time"`
	EndTime        *timegrid.TimeOfDay `json:"end_time"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Window returns the visible window described by the snapshot.
func (s AdminSnapshot) Window() timegrid.Window {
	return timegrid.Window{Start: s.StartTime, End: s.EndTime}
}

// ScheduleSeed is the on-disk shape of an initial admin configuration.
type ScheduleSeed struct {
	BlockedSlots   []timegrid.BlockRecord `json:"blocked_slots"`
	ScheduledDates []timegrid.Date        `json:"scheduled_dates"`
	StartTime      *timegrid.TimeOfDay    `json:"start_time"`
	EndTime        *timegrid.TimeOfDay    `json:"end_time"`
}
