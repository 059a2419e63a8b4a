package export

import (
	"fmt"

	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

const (
	timeHeader       = "Time"
	unavailableLabel = "-"
)

// Dataset defines tabular export content. Marked flags cells that render shaded.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
	Marked  [][]bool
}

// GridDataset flattens a rendered grid into one row per time and one column per
// date. Cells whose state is set carry stateLabel, ineligible cells a dash.
// The label-only end row is kept with empty cells.
func GridDataset(title string, view timegrid.View, stateLabel string) Dataset {
	data := Dataset{
		Title:   title,
		Headers: make([]string, 0, len(view.Dates)+1),
		Rows:    make([][]string, 0, len(view.Rows)),
		Marked:  make([][]bool, 0, len(view.Rows)),
	}
	data.Headers = append(data.Headers, timeHeader)
	for _, d := range view.Dates {
		data.Headers = append(data.Headers, fmt.Sprintf("%s %s", d.Weekday().String()[:3], d))
	}

	for _, row := range view.Rows {
		record := make([]string, len(data.Headers))
		marks := make([]bool, len(data.Headers))
		record[0] = row.Time.String()
		if !row.LabelOnly {
			for _, cell := range row.Cells {
				col := cell.DateIndex + 1
				switch {
				case !cell.Eligible:
					record[col] = unavailableLabel
				case cell.State:
					record[col] = stateLabel
					marks[col] = true
				}
			}
		}
		data.Rows = append(data.Rows, record)
		data.Marked = append(data.Marked, marks)
	}
	return data
}

func (d Dataset) marked(row, col int) bool {
	if row >= len(d.Marked) || col >= len(d.Marked[row]) {
		return false
	}
	return d.Marked[row][col]
}
