package timegrid

// Cell addresses one grid cell by column index and row time.
type Cell struct {
	DateIndex int `json:"date_index"`
	Hour      int `json:"hour"`
	Minute    int `json:"minute"`
}

// Minutes returns the row in minutes since midnight.
func (c Cell) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonAuxiliary
	ButtonSecondary
)

// GestureState is the drag state machine state.
type GestureState int

const (
	Idle GestureState = iota
	Dragging
)

func (s GestureState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Region is the inclusive rectangle spanned by two cells.
type Region struct {
	MinDateIndex int
	MaxDateIndex int
	MinMinutes   int
	MaxMinutes   int
}

// RegionOf normalises two corners so either may be the anchor.
func RegionOf(a, b Cell) Region {
	return Region{
		MinDateIndex: min(a.DateIndex, b.DateIndex),
		MaxDateIndex: max(a.DateIndex, b.DateIndex),
		MinMinutes:   min(a.Minutes(), b.Minutes()),
		MaxMinutes:   max(a.Minutes(), b.Minutes()),
	}
}

// Contains reports whether the cell lies inside the rectangle.
func (r Region) Contains(c Cell) bool {
	m := c.Minutes()
	return c.DateIndex >= r.MinDateIndex && c.DateIndex <= r.MaxDateIndex &&
		m >= r.MinMinutes && m <= r.MaxMinutes
}

// DragSelector tracks one press-to-release gesture. The target state is fixed
// at press time from the pressed cell and holds for the whole gesture.
type DragSelector struct {
	state   GestureState
	anchor  Cell
	current Cell
	target  bool
}

// State returns the gesture state.
func (d *DragSelector) State() GestureState {
	return d.state
}

// Begin enters Dragging anchored at cell. A cell currently false or unset
// makes the gesture set true; a cell currently true makes it set false.
func (d *DragSelector) Begin(cell Cell, currentState bool) {
	d.state = Dragging
	d.anchor = cell
	d.current = cell
	d.target = !currentState
}

// Move updates the current corner while dragging; it is ignored when idle.
func (d *DragSelector) Move(cell Cell) {
	if d.state != Dragging {
		return
	}
	d.current = cell
}

// Region returns the spanned rectangle while dragging.
func (d *DragSelector) Region() (Region, bool) {
	if d.state != Dragging {
		return Region{}, false
	}
	return RegionOf(d.anchor, d.current), true
}

// Target returns the state the gesture applies.
func (d *DragSelector) Target() bool {
	return d.target
}

// End returns the final region and target and resets to Idle.
func (d *DragSelector) End() (Region, bool, bool) {
	region, ok := d.Region()
	target := d.target
	*d = DragSelector{}
	return region, target, ok
}
