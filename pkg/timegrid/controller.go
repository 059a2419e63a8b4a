package timegrid

// Controller binds a DragSelector to a SlotSet and the current layout. It turns
// press, enter, release and keyboard events into new SlotSets.
//
// A Controller is not safe for concurrent use; callers serialise events.
type Controller struct {
	source   LayoutSource
	selector DragSelector
	slots    SlotSet
	onChange func(SlotSet)
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithOnChange registers the callback receiving every new SlotSet.
func WithOnChange(fn func(SlotSet)) ControllerOption {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithSlots seeds the controller with an existing set.
func WithSlots(slots SlotSet) ControllerOption {
	return func(c *Controller) {
		c.slots = slots
	}
}

// NewController builds a controller reading its layout from source.
func NewController(source LayoutSource, opts ...ControllerOption) *Controller {
	if source == nil {
		panic("timegrid: controller requires a layout source")
	}
	c := &Controller{source: source}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slots returns the current set.
func (c *Controller) Slots() SlotSet {
	return c.slots
}

// Layout returns the layout as currently seen by the controller.
func (c *Controller) Layout() Layout {
	return c.source()
}

// State returns the gesture state.
func (c *Controller) State() GestureState {
	return c.selector.State()
}

// Region returns the rectangle of the gesture in progress.
func (c *Controller) Region() (Region, bool) {
	return c.selector.Region()
}

// Press starts a gesture on a primary-button press over an eligible, visible cell.
// It reports whether a gesture started.
func (c *Controller) Press(cell Cell, button Button) bool {
	if button != ButtonPrimary {
		return false
	}
	layout := c.source()
	date, ok := c.resolve(layout, cell)
	if !ok {
		return false
	}
	c.selector.Begin(cell, c.slots.State(date, cell.Hour, cell.Minute))
	return true
}

// Enter moves the gesture's current corner. Eligibility is not checked here.
func (c *Controller) Enter(cell Cell) {
	c.selector.Move(cell)
}

// Release ends the gesture and applies its target state to every eligible
// visible cell inside the region, column by column and row by row. It reports
// false when no gesture was in progress.
func (c *Controller) Release() (SlotSet, bool) {
	region, target, ok := c.selector.End()
	if !ok {
		return c.slots, false
	}
	layout := c.source()
	rows := layout.Window.Rows()

	cells := make([]Slot, 0)
	for di := region.MinDateIndex; di <= region.MaxDateIndex; di++ {
		date, ok := layout.Dates.At(di)
		if !ok {
			continue
		}
		for _, row := range rows {
			m := row.Minutes()
			if m < region.MinMinutes || m > region.MaxMinutes {
				continue
			}
			if !layout.eligible(Cell{DateIndex: di, Hour: row.Hour, Minute: row.Minute}) {
				continue
			}
			cells = append(cells, Slot{Date: date, Hour: row.Hour, Minute: row.Minute, State: target})
		}
	}

	c.emit(c.slots.applyStates(cells))
	return c.slots, true
}

// Toggle flips one eligible, visible cell. It bypasses the gesture state machine.
func (c *Controller) Toggle(cell Cell) bool {
	layout := c.source()
	date, ok := c.resolve(layout, cell)
	if !ok {
		return false
	}
	current := c.slots.State(date, cell.Hour, cell.Minute)
	c.emit(c.slots.SetState(date, cell.Hour, cell.Minute, !current))
	return true
}

// Preview reports whether the cell is highlighted by the gesture in progress.
func (c *Controller) Preview(cell Cell) bool {
	region, ok := c.selector.Region()
	if !ok || !region.Contains(cell) {
		return false
	}
	return c.source().eligible(cell)
}

// Replace swaps the set wholesale without touching the gesture.
func (c *Controller) Replace(slots SlotSet) {
	c.emit(slots)
}

// Reset clears the set and any gesture in progress.
func (c *Controller) Reset() {
	c.selector = DragSelector{}
	c.emit(SlotSet{})
}

func (c *Controller) resolve(layout Layout, cell Cell) (Date, bool) {
	date, ok := layout.Dates.At(cell.DateIndex)
	if !ok || !onRows(layout.Window, cell) || !layout.eligible(cell) {
		return Date{}, false
	}
	return date, true
}

func (c *Controller) emit(slots SlotSet) {
	c.slots = slots
	if c.onChange != nil {
		c.onChange(slots)
	}
}

func onRows(w Window, cell Cell) bool {
	for _, row := range w.Rows() {
		if row.Hour == cell.Hour && row.Minute == cell.Minute {
			return true
		}
	}
	return false
}
