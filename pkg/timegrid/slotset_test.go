package timegrid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) Date {
	return Date{Year: 2026, Month: 10, Day: d}
}

func TestSlotSetSetStateAppendsThenUpdatesInPlace(t *testing.T) {
	empty := SlotSet{}
	one := empty.SetState(day(1), 9, 0, true)
	require.Equal(t, 0, empty.Len(), "receiver must not change")
	require.Equal(t, 1, one.Len())
	assert.True(t, one.State(day(1), 9, 0))

	flipped := one.SetState(day(1), 9, 0, false)
	assert.Equal(t, 1, flipped.Len())
	assert.False(t, flipped.State(day(1), 9, 0))
	assert.True(t, one.State(day(1), 9, 0), "previous set keeps its state")
}

func TestSlotSetNeverHoldsDuplicates(t *testing.T) {
	set := SlotSet{}
	cells := []struct {
		date   Date
		hour   int
		minute int
	}{
		{day(1), 9, 0}, {day(1), 9, 30}, {day(1), 9, 0}, {day(2), 9, 0}, {day(1), 9, 30}, {day(2), 9, 0},
	}
	for i := 0; i < 5; i++ {
		for _, c := range cells {
			set = set.SetState(c.date, c.hour, c.minute, i%2 == 0)
		}
	}
	assert.Equal(t, 3, set.Len())

	seen := map[slotKey]bool{}
	for _, s := range set.Slots() {
		k := keyOf(s)
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
	}
}

func TestSlotSetIndexOfMissing(t *testing.T) {
	set := NewSlotSet(Slot{Date: day(1), Hour: 10, Minute: 0, State: true})
	assert.Equal(t, -1, set.IndexOf(day(1), 10, 30))
	assert.Equal(t, -1, set.IndexOf(day(2), 10, 0))
	assert.Equal(t, 0, set.IndexOf(day(1), 10, 0))
	assert.False(t, set.State(day(3), 0, 0))
}

func TestSlotSetCountAndEqual(t *testing.T) {
	a := NewSlotSet(
		Slot{Date: day(1), Hour: 9, State: true},
		Slot{Date: day(1), Hour: 10, State: false},
	)
	b := NewSlotSet(
		Slot{Date: day(1), Hour: 10, State: false},
		Slot{Date: day(1), Hour: 9, State: true},
	)
	assert.Equal(t, 1, a.CountTrue())
	assert.Len(t, a.Active(), 1)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.SetState(day(1), 10, 0, true)))
}

func TestSlotSetJSON(t *testing.T) {
	set := NewSlotSet(Slot{Date: day(5), Hour: 13, Minute: 30, State: true})
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2026-10-05","hour":13,"minute":30,"state":true}]`, string(raw))

	var decoded SlotSet
	require.NoError(t, json.Unmarshal([]byte(`[
		{"date":"2026-10-05","hour":13,"minute":30,"state":true},
		{"date":"2026-10-05","hour":13,"minute":30,"state":false}
	]`), &decoded))
	assert.Equal(t, 1, decoded.Len())
	assert.False(t, decoded.State(day(5), 13, 30))
}

func TestDateAxisSortsAndDeduplicates(t *testing.T) {
	axis := NewDateAxis(day(3), day(1), day(3), day(2))
	assert.Equal(t, []Date{day(1), day(2), day(3)}, axis.Dates())

	toggled := axis.Toggle(day(2))
	assert.Equal(t, []Date{day(1), day(3)}, toggled.Dates())
	assert.Equal(t, []Date{day(1), day(2), day(3)}, toggled.Toggle(day(2)).Dates())

	assert.Equal(t, []Date{day(2), day(3)}, axis.RemoveAt(0).Dates())
	assert.Equal(t, axis.Dates(), axis.RemoveAt(7).Dates())

	_, ok := axis.At(3)
	assert.False(t, ok)
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	assert.Equal(t, Date{Year: 2026, Month: 11, Day: 1}, Date{Year: 2026, Month: 10, Day: 31}.AddDays(1))
	assert.Equal(t, Date{Year: 2027, Month: 1, Day: 1}, Date{Year: 2026, Month: 12, Day: 31}.AddDays(1))
}

func TestDateUnmarshalAcceptsTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-10-17T15:04:05+09:00"`), &d))
	assert.Equal(t, day(17), d)
	require.Error(t, json.Unmarshal([]byte(`"17/10/2026"`), &d))
}
