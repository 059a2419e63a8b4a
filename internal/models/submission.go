package models

import (
	"time"

	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

// Submission is the record emitted when a mentor or applicant saves availability.
type Submission struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Name        string          `json:"name"`
	Role        Role            `json:"role"`
	Slots       []timegrid.Slot `json:"slots"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
