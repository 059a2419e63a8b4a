package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

// ScheduleObserver is notified after every mutation of the shared admin settings.
type ScheduleObserver func(models.AdminSnapshot)

// ScheduleState holds the admin-owned settings shared by every open page: the
// blocked slots, the scheduled dates and the visible window.
type ScheduleState struct {
	mu        sync.RWMutex
	blocked   timegrid.SlotSet
	dates     timegrid.DateAxis
	start     *timegrid.TimeOfDay
	end       *timegrid.TimeOfDay
	revision  uint64
	updatedAt time.Time

	subsMu    sync.Mutex
	subs      map[uint64]ScheduleObserver
	nextSubID uint64

	now    func() time.Time
	logger *zap.Logger
}

// NewScheduleState constructs an empty shared state.
func NewScheduleState(logger *zap.Logger) *ScheduleState {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleState{
		subs:   make(map[uint64]ScheduleObserver),
		now:    time.Now,
		logger: logger,
	}
}

// Snapshot returns a copy of the current settings.
func (s *ScheduleState) Snapshot() models.AdminSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Today is the calendar date legacy day offsets resolve against.
func (s *ScheduleState) Today() timegrid.Date {
	return timegrid.DateOf(s.now())
}

// SetBlocked replaces the blocked slot set.
func (s *ScheduleState) SetBlocked(blocked timegrid.SlotSet) models.AdminSnapshot {
	return s.mutate("blocked", func() {
		s.blocked = blocked
	})
}

// SetDates replaces the scheduled dates.
func (s *ScheduleState) SetDates(dates timegrid.DateAxis) models.AdminSnapshot {
	return s.mutate("dates", func() {
		s.dates = dates
	})
}

// Commit replaces blocked slots and dates as a single revision.
func (s *ScheduleState) Commit(blocked timegrid.SlotSet, dates timegrid.DateAxis) models.AdminSnapshot {
	return s.mutate("commit", func() {
		s.blocked = blocked
		s.dates = dates
	})
}

// SetStart sets or clears the first visible row. The range is not validated.
func (s *ScheduleState) SetStart(t *timegrid.TimeOfDay) models.AdminSnapshot {
	return s.mutate("start_time", func() {
		s.start = cloneTime(t)
	})
}

// SetEnd sets or clears the exclusive end of the visible rows.
func (s *ScheduleState) SetEnd(t *timegrid.TimeOfDay) models.AdminSnapshot {
	return s.mutate("end_time", func() {
		s.end = cloneTime(t)
	})
}

// SetWindow sets both bounds as a single revision.
func (s *ScheduleState) SetWindow(w timegrid.Window) models.AdminSnapshot {
	return s.mutate("window", func() {
		s.start = cloneTime(w.Start)
		s.end = cloneTime(w.End)
	})
}

// ResetAdminSettings clears blocked slots, dates and both window bounds.
func (s *ScheduleState) ResetAdminSettings() models.AdminSnapshot {
	return s.mutate("reset", func() {
		s.blocked = timegrid.SlotSet{}
		s.dates = timegrid.DateAxis{}
		s.start = nil
		s.end = nil
	})
}

// ApplySeed loads a seed, resolving legacy day offsets against today.
func (s *ScheduleState) ApplySeed(seed models.ScheduleSeed) (models.AdminSnapshot, error) {
	blocked, err := timegrid.BlocksToSlotSet(seed.BlockedSlots, s.Today())
	if err != nil {
		return models.AdminSnapshot{}, fmt.Errorf("seed blocked slots: %w", err)
	}
	for _, t := range []*timegrid.TimeOfDay{seed.StartTime, seed.EndTime} {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return models.AdminSnapshot{}, fmt.Errorf("seed window: %w", err)
		}
	}
	dates := timegrid.NewDateAxis(seed.ScheduledDates...)
	return s.mutate("seed", func() {
		s.blocked = blocked
		s.dates = dates
		s.start = cloneTime(seed.StartTime)
		s.end = cloneTime(seed.EndTime)
	}), nil
}

// Subscribe registers an observer and returns a function removing it.
// Observers run synchronously on the mutating goroutine in registration order.
func (s *ScheduleState) Subscribe(fn ScheduleObserver) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.subsMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *ScheduleState) mutate(field string, apply func()) models.AdminSnapshot {
	s.mu.Lock()
	apply()
	s.revision++
	s.updatedAt = s.now().UTC()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("schedule updated", zap.String("field", field), zap.Uint64("revision", snap.Revision))
	s.notify(snap)
	return snap
}

func (s *ScheduleState) notify(snap models.AdminSnapshot) {
	s.subsMu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]ScheduleObserver, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func (s *ScheduleState) snapshotLocked() models.AdminSnapshot {
	return models.AdminSnapshot{
		Revision:       s.revision,
		BlockedSlots:   s.blocked,
		ScheduledDates: s.dates,
		StartTime:      cloneTime(s.start),
		EndTime:        cloneTime(s.end),
		UpdatedAt:      s.updatedAt,
	}
}

func cloneTime(t *timegrid.TimeOfDay) *timegrid.TimeOfDay {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// LoadScheduleSeed reads a JSON seed file. Blocked records may use either the
// dated or the legacy day-offset shape.
func LoadScheduleSeed(path string) (models.ScheduleSeed, error) {
	var seed models.ScheduleSeed
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read schedule seed: %w", err)
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("decode schedule seed %s: %w", path, err)
	}
	return seed, nil
}
