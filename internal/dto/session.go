package dto

import "github.com/noah-isme/interview-timetable-api/pkg/timegrid"

// CreateSessionRequest opens a page session.
type CreateSessionRequest struct {
	Role string `json:"role" validate:"required,session_role"`
	Name string `json:"name" validate:"max=100"`
}

// SetNameRequest updates the viewer's name.
type SetNameRequest struct {
	Name string `json:"name" validate:"max=100"`
}

// CellRequest addresses one grid cell.
type CellRequest struct {
	DateIndex *int `json:"date_index" validate:"required,min=0"`
	Hour      *int `json:"hour" validate:"required,min=0,max=24"`
	Minute    *int `json:"minute" validate:"required,oneof=0 30"`
}

// Cell converts the request into a grid cell. Call after validation.
func (r CellRequest) Cell() timegrid.Cell {
	return timegrid.Cell{DateIndex: *r.DateIndex, Hour: *r.Hour, Minute: *r.Minute}
}

// PressRequest is a pointer press. Button follows the DOM numbering, 0 being
// the primary button; it defaults to primary.
type PressRequest struct {
	CellRequest
	Button *int `json:"button" validate:"omitempty,oneof=0 1 2"`
}

// GridButton maps the DOM button number onto the grid's button.
func (r PressRequest) GridButton() timegrid.Button {
	if r.Button == nil {
		return timegrid.ButtonPrimary
	}
	switch *r.Button {
	case 1:
		return timegrid.ButtonAuxiliary
	case 2:
		return timegrid.ButtonSecondary
	default:
		return timegrid.ButtonPrimary
	}
}

// EnterRequest moves the drag corner.
type EnterRequest struct {
	CellRequest
}

// ToggleRequest is a keyboard activation of a focused cell.
type ToggleRequest struct {
	CellRequest
	Key string `json:"key" validate:"required,toggle_key"`
}
