package timegrid

import "encoding/json"

// Slot is one half-hour cell of a date and its boolean state. The state means
// "blocked" in an admin set and "selected" in a mentor or applicant set.
type Slot struct {
	Date   Date `json:"date"`
	Hour   int  `json:"hour"`
	Minute int  `json:"minute"`
	State  bool `json:"state"`
}

// Minutes returns the slot start in minutes since midnight.
func (s Slot) Minutes() int {
	return s.Hour*60 + s.Minute
}

// SlotSet is an immutable sparse collection keyed by (date, hour, minute).
// Updates return a new set; the receiver is never modified.
type SlotSet struct {
	slots []Slot
}

// NewSlotSet builds a set from slots. Later duplicates overwrite earlier ones.
func NewSlotSet(slots ...Slot) SlotSet {
	set := SlotSet{}
	for _, s := range slots {
		set = set.SetState(s.Date, s.Hour, s.Minute, s.State)
	}
	return set
}

// Len returns the number of known cells, whatever their state.
func (s SlotSet) Len() int {
	return len(s.slots)
}

// Slots returns a copy of the entries in insertion order.
func (s SlotSet) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// IndexOf returns the position of the cell or -1. Linear scan; sets hold a few
// hundred cells at most.
func (s SlotSet) IndexOf(date Date, hour, minute int) int {
	for i, slot := range s.slots {
		if slot.Date == date && slot.Hour == hour && slot.Minute == minute {
			return i
		}
	}
	return -1
}

// State reports the cell state; absent cells are false.
func (s SlotSet) State(date Date, hour, minute int) bool {
	if i := s.IndexOf(date, hour, minute); i >= 0 {
		return s.slots[i].State
	}
	return false
}

// SetState returns a new set with the cell updated in place or appended.
func (s SlotSet) SetState(date Date, hour, minute int, state bool) SlotSet {
	out := s.Slots()
	if i := s.IndexOf(date, hour, minute); i >= 0 {
		out[i].State = state
		return SlotSet{slots: out}
	}
	out = append(out, Slot{Date: date, Hour: hour, Minute: minute, State: state})
	return SlotSet{slots: out}
}

// CountTrue returns the number of cells whose state is true.
func (s SlotSet) CountTrue() int {
	n := 0
	for _, slot := range s.slots {
		if slot.State {
			n++
		}
	}
	return n
}

// Active returns the cells whose state is true.
func (s SlotSet) Active() []Slot {
	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.State {
			out = append(out, slot)
		}
	}
	return out
}

// Equal compares two sets by cell identity and state, ignoring order.
func (s SlotSet) Equal(other SlotSet) bool {
	if len(s.slots) != len(other.slots) {
		return false
	}
	for _, slot := range s.slots {
		i := other.IndexOf(slot.Date, slot.Hour, slot.Minute)
		if i < 0 || other.slots[i].State != slot.State {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an array of slots.
func (s SlotSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slots())
}

// UnmarshalJSON decodes an array of slots, collapsing duplicates.
func (s *SlotSet) UnmarshalJSON(data []byte) error {
	var slots []Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	*s = NewSlotSet(slots...)
	return nil
}

// applyStates writes many cells into one fresh copy, in the order given.
func (s SlotSet) applyStates(cells []Slot) SlotSet {
	out := s.Slots()
	index := make(map[slotKey]int, len(out)+len(cells))
	for i, slot := range out {
		index[keyOf(slot)] = i
	}
	for _, cell := range cells {
		k := keyOf(cell)
		if i, ok := index[k]; ok {
			out[i].State = cell.State
			continue
		}
		index[k] = len(out)
		out = append(out, cell)
	}
	return SlotSet{slots: out}
}

type slotKey struct {
	date   Date
	hour   int
	minute int
}

func keyOf(s Slot) slotKey {
	return slotKey{date: s.Date, hour: s.Hour, minute: s.Minute}
}
