package timegrid

// Eligibility reports whether the cell at (dateIndex, hour, minute) accepts interaction.
type Eligibility func(dateIndex, hour, minute int) bool

// AdminEligibility allows every cell whose column has a date.
func AdminEligibility(dates DateAxis) Eligibility {
	return func(dateIndex, _, _ int) bool {
		_, ok := dates.At(dateIndex)
		return ok
	}
}

// ViewerEligibility allows cells whose column has a date and that the admin has not blocked.
func ViewerEligibility(dates DateAxis, blocked SlotSet) Eligibility {
	return func(dateIndex, hour, minute int) bool {
		date, ok := dates.At(dateIndex)
		if !ok {
			return false
		}
		return !blocked.State(date, hour, minute)
	}
}

// Layout is the grid configuration read at every event.
type Layout struct {
	Dates    DateAxis
	Window   Window
	Eligible Eligibility
}

// LayoutSource yields the current layout. Implementations must reflect admin
// changes made since the previous call.
type LayoutSource func() Layout

func (l Layout) eligible(c Cell) bool {
	if l.Eligible == nil {
		return false
	}
	return l.Eligible(c.DateIndex, c.Hour, c.Minute)
}
