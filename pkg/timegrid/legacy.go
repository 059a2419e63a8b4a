package timegrid

import (
	"encoding/json"
	"errors"
	"fmt"
)

// RecordKind tags the shape of a stored blocked-slot record.
type RecordKind int

const (
	// KindDated records carry an absolute date.
	KindDated RecordKind = iota
	// KindLegacy records carry a weekday offset relative to the load day.
	KindLegacy
)

// BlockRecord is a blocked-slot record in either stored shape.
type BlockRecord struct {
	Kind    RecordKind
	Day     int
	Date    Date
	Hour    int
	Minute  int
	Blocked bool
}

type blockRecordJSON struct {
	Day     *int  `json:"day,omitempty"`
	Date    *Date `json:"date,omitempty"`
	Hour    int   `json:"hour"`
	Minute  int   `json:"minute"`
	Blocked bool  `json:"blocked"`
}

// UnmarshalJSON detects the shape from the presence of "date" or "day".
func (r *BlockRecord) UnmarshalJSON(data []byte) error {
	var raw blockRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Date != nil:
		*r = BlockRecord{Kind: KindDated, Date: *raw.Date, Hour: raw.Hour, Minute: raw.Minute, Blocked: raw.Blocked}
	case raw.Day != nil:
		*r = BlockRecord{Kind: KindLegacy, Day: *raw.Day, Hour: raw.Hour, Minute: raw.Minute, Blocked: raw.Blocked}
	default:
		return errors.New("block record needs either date or day")
	}
	return nil
}

// MarshalJSON writes the record in its own shape.
func (r BlockRecord) MarshalJSON() ([]byte, error) {
	out := blockRecordJSON{Hour: r.Hour, Minute: r.Minute, Blocked: r.Blocked}
	if r.Kind == KindLegacy {
		day := r.Day
		out.Day = &day
	} else {
		date := r.Date
		out.Date = &date
	}
	return json.Marshal(out)
}

// UpgradeBlocks resolves legacy records to today+day when the first record is
// legacy; otherwise the records are taken as dated. The result is always dated.
func UpgradeBlocks(records []BlockRecord, today Date) []BlockRecord {
	out := make([]BlockRecord, len(records))
	copy(out, records)
	if len(out) == 0 || out[0].Kind != KindLegacy {
		return out
	}
	for i, rec := range out {
		if rec.Kind != KindLegacy {
			continue
		}
		out[i] = BlockRecord{
			Kind:    KindDated,
			Date:    today.AddDays(rec.Day),
			Hour:    rec.Hour,
			Minute:  rec.Minute,
			Blocked: rec.Blocked,
		}
	}
	return out
}

// BlocksToSlotSet upgrades records and converts them into a SlotSet. Records that
// remain legacy after the upgrade (a legacy record after a dated first record)
// cannot be placed and are reported as an error.
func BlocksToSlotSet(records []BlockRecord, today Date) (SlotSet, error) {
	upgraded := UpgradeBlocks(records, today)
	slots := make([]Slot, 0, len(upgraded))
	for i, rec := range upgraded {
		if rec.Kind == KindLegacy {
			return SlotSet{}, fmt.Errorf("record %d: legacy day offset after dated records", i)
		}
		if err := (TimeOfDay{Hour: rec.Hour, Minute: rec.Minute}).Validate(); err != nil {
			return SlotSet{}, fmt.Errorf("record %d: %w", i, err)
		}
		slots = append(slots, Slot{Date: rec.Date, Hour: rec.Hour, Minute: rec.Minute, State: rec.Blocked})
	}
	return NewSlotSet(slots...), nil
}

// SlotSetToBlocks converts a blocked set into dated records.
func SlotSetToBlocks(set SlotSet) []BlockRecord {
	slots := set.Slots()
	out := make([]BlockRecord, len(slots))
	for i, s := range slots {
		out[i] = BlockRecord{Kind: KindDated, Date: s.Date, Hour: s.Hour, Minute: s.Minute, Blocked: s.State}
	}
	return out
}
