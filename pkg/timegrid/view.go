package timegrid

// CellView is the render state of one interactive cell.
type CellView struct {
	DateIndex int  `json:"date_index"`
	Eligible  bool `json:"eligible"`
	State     bool `json:"state"`
	InDrag    bool `json:"in_drag"`
}

// RowView is one row of the grid. Label-only rows carry no cells.
type RowView struct {
	Time      TimeOfDay  `json:"time"`
	LabelOnly bool       `json:"label_only"`
	Cells     []CellView `json:"cells,omitempty"`
}

// View is a renderable snapshot of a grid.
type View struct {
	Dates    []Date       `json:"dates"`
	Window   Window       `json:"window"`
	Rows     []RowView    `json:"rows"`
	Gesture  GestureState `json:"-"`
	Dragging bool         `json:"dragging"`
	Warning  string       `json:"warning,omitempty"`
}

// Render builds the view for the controller's current layout and set.
func (c *Controller) Render() View {
	layout := c.source()
	view := View{
		Dates:    layout.Dates.Dates(),
		Window:   layout.Window,
		Gesture:  c.selector.State(),
		Dragging: c.selector.State() == Dragging,
	}
	if err := layout.Window.Validate(); err != nil {
		view.Warning = err.Error()
	}

	rows := layout.Window.Rows()
	view.Rows = make([]RowView, 0, len(rows)+1)
	for _, t := range rows {
		row := RowView{Time: t, Cells: make([]CellView, layout.Dates.Len())}
		for di := 0; di < layout.Dates.Len(); di++ {
			cell := Cell{DateIndex: di, Hour: t.Hour, Minute: t.Minute}
			date, _ := layout.Dates.At(di)
			row.Cells[di] = CellView{
				DateIndex: di,
				Eligible:  layout.eligible(cell),
				State:     c.slots.State(date, t.Hour, t.Minute),
				InDrag:    c.Preview(cell),
			}
		}
		view.Rows = append(view.Rows, row)
	}
	if label, ok := layout.Window.EndLabel(); ok {
		view.Rows = append(view.Rows, RowView{Time: label, LabelOnly: true})
	}
	return view
}
