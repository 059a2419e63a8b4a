package dto

import "github.com/noah-isme/interview-timetable-api/pkg/timegrid"

// DateRequest adds or removes one scheduled date.
type DateRequest struct {
	Date *timegrid.Date `json:"date" validate:"required"`
}

// WindowRequest sets both visible bounds; null clears a bound.
type WindowRequest struct {
	Start *timegrid.TimeOfDay `json:"start"`
	End   *timegrid.TimeOfDay `json:"end"`
}

// Window converts the request into a grid window.
func (r WindowRequest) Window() timegrid.Window {
	return timegrid.Window{Start: r.Start, End: r.End}
}

// TimeBoundRequest sets a single bound; null clears it.
type TimeBoundRequest struct {
	Time *timegrid.TimeOfDay `json:"time"`
}

// ImportBlocksRequest carries blocked-slot records in either stored shape.
type ImportBlocksRequest struct {
	BlockedSlots []timegrid.BlockRecord `json:"blocked_slots" validate:"max=5000"`
}
