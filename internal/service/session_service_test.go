package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

type recorderStub struct {
	subs []models.Submission
	err  error
}

func (r *recorderStub) Record(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if r.err != nil {
		return models.Submission{}, r.err
	}
	sub.ID = "sub-1"
	r.subs = append(r.subs, sub)
	return sub, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *memoryCacheRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type sessionFixture struct {
	state    *ScheduleState
	svc      *SessionService
	recorder *recorderStub
	cache    *memoryCacheRepo
}

// newSessionFixture schedules 19, 20 and 21 October, shows 09:00 to 12:00 and
// blocks 20 October 09:30.
func newSessionFixture(t *testing.T, cfg SessionServiceConfig) *sessionFixture {
	t.Helper()
	state := NewScheduleState(zap.NewNop())
	state.Commit(
		timegrid.NewSlotSet(timegrid.Slot{Date: d(20), Hour: 9, Minute: 30, State: true}),
		timegrid.NewDateAxis(d(19), d(20), d(21)),
	)
	state.SetWindow(timegrid.Window{Start: at(9, 0), End: at(12, 0)})

	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, "test:grid", zap.NewNop(), true)
	cache.WatchSchedule(state)

	recorder := &recorderStub{}
	svc := NewSessionService(state, recorder, cache, metrics, zap.NewNop(), cfg)
	return &sessionFixture{state: state, svc: svc, recorder: recorder, cache: repo}
}

func (f *sessionFixture) open(t *testing.T, role models.Role, name string) string {
	t.Helper()
	summary, err := f.svc.Create(context.Background(), role, name)
	require.NoError(t, err)
	return summary.ID
}

func cellAt(di, hour, minute int) timegrid.Cell {
	return timegrid.Cell{DateIndex: di, Hour: hour, Minute: minute}
}

func TestSessionServiceCreateValidatesRole(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	_, err := f.svc.Create(context.Background(), models.Role("guest"), "")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	summary, err := f.svc.Create(context.Background(), models.Role(" Mentor "), "  Kim  ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, summary.Role)
	assert.Equal(t, "Kim", summary.Name)
	assert.Nil(t, summary.DraftDates)
	assert.Equal(t, 1, f.svc.Count())
}

func TestSessionServiceRequiresState(t *testing.T) {
	assert.Panics(t, func() {
		NewSessionService(nil, nil, nil, nil, nil, SessionServiceConfig{})
	})
}

func TestSessionServiceViewerDragSkipsBlockedCells(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleApplicant, "")

	res, err := f.svc.Enter(ctx, id, cellAt(1, 10, 0))
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = f.svc.Press(ctx, id, cellAt(0, 9, 0), timegrid.ButtonPrimary)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Dragging)

	_, err = f.svc.Enter(ctx, id, cellAt(1, 10, 0))
	require.NoError(t, err)

	res, err = f.svc.Release(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.False(t, res.Dragging)
	assert.Equal(t, 5, res.Slots.CountTrue())
	assert.False(t, res.Slots.State(d(20), 9, 30))
	assert.True(t, res.Slots.State(d(20), 10, 0))
	assert.Equal(t, uint64(3), res.Revision)

	res, err = f.svc.Release(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestSessionServiceIgnoresSecondaryButtonAndBlockedPress(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleMentor, "")

	res, err := f.svc.Press(ctx, id, cellAt(0, 9, 0), timegrid.ButtonSecondary)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = f.svc.Press(ctx, id, cellAt(1, 9, 30), timegrid.ButtonPrimary)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.False(t, res.Dragging)

	res, err = f.svc.Toggle(ctx, id, cellAt(2, 11, 30))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Slots.State(d(21), 11, 30))

	res, err = f.svc.Toggle(ctx, id, cellAt(2, 12, 0))
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestSessionServiceSubmitValidatesAndClears(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleApplicant, "")

	_, _, err := f.svc.Submit(ctx, id)
	assert.True(t, errors.Is(err, appErrors.ErrNameRequired))

	_, err = f.svc.SetName(ctx, id, "Lee")
	require.NoError(t, err)
	_, _, err = f.svc.Submit(ctx, id)
	assert.True(t, errors.Is(err, appErrors.ErrNoSelection))

	_, err = f.svc.Toggle(ctx, id, cellAt(0, 10, 0))
	require.NoError(t, err)

	sub, notices, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "Lee", sub.Name)
	assert.Equal(t, models.RoleApplicant, sub.Role)
	require.Len(t, sub.Slots, 1)
	assert.Equal(t, d(19), sub.Slots[0].Date)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeSuccess, notices[0].Level)
	require.Len(t, f.recorder.subs, 1)

	summary, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary.Name)
	assert.Equal(t, 0, summary.SelectedCount)
}

func TestSessionServiceSubmitKeepsFormWhenRecorderFails(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	f.recorder.err = errors.New("queue down")
	ctx := context.Background()
	id := f.open(t, models.RoleMentor, "Park")
	_, err := f.svc.Toggle(ctx, id, cellAt(0, 9, 0))
	require.NoError(t, err)

	_, _, err = f.svc.Submit(ctx, id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)

	summary, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Park", summary.Name)
	assert.Equal(t, 1, summary.SelectedCount)
}

func TestSessionServiceResetNameAndSelection(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleMentor, "Choi")
	_, err := f.svc.Toggle(ctx, id, cellAt(0, 9, 0))
	require.NoError(t, err)

	summary, err := f.svc.ResetName(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary.Name)
	assert.Equal(t, 1, summary.SelectedCount)

	_, err = f.svc.SetName(ctx, id, "Choi")
	require.NoError(t, err)
	summary, err = f.svc.ResetSelection(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, summary.Name)
	assert.Equal(t, 0, summary.SelectedCount)
}

func TestSessionServiceRoleMismatch(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	viewer := f.open(t, models.RoleApplicant, "")
	admin := f.open(t, models.RoleAdmin, "")

	_, err := f.svc.ToggleDate(ctx, viewer, d(22))
	assert.True(t, errors.Is(err, appErrors.ErrRoleMismatch))
	_, _, err = f.svc.SaveAdmin(ctx, viewer)
	assert.True(t, errors.Is(err, appErrors.ErrRoleMismatch))
	_, err = f.svc.SetName(ctx, admin, "x")
	assert.True(t, errors.Is(err, appErrors.ErrRoleMismatch))
	_, _, err = f.svc.Submit(ctx, admin)
	assert.True(t, errors.Is(err, appErrors.ErrRoleMismatch))

	_, err = f.svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestSessionServiceAdminDraftDates(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleAdmin, "")

	summary, err := f.svc.ToggleDate(ctx, id, d(22))
	require.NoError(t, err)
	assert.Equal(t, []timegrid.Date{d(19), d(20), d(21), d(22)}, summary.DraftDates.Dates())

	summary, err = f.svc.ToggleDate(ctx, id, d(20))
	require.NoError(t, err)
	assert.Equal(t, []timegrid.Date{d(19), d(21), d(22)}, summary.DraftDates.Dates())

	summary, err = f.svc.RemoveDate(ctx, id, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.DraftDates.Len())

	summary, err = f.svc.RemoveDate(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, []timegrid.Date{d(21), d(22)}, summary.DraftDates.Dates())

	_, err = f.svc.ToggleDate(ctx, id, timegrid.Date{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	assert.Equal(t, 3, f.state.Snapshot().ScheduledDates.Len())

	summary, err = f.svc.ClearDates(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DraftDates.Len())
}

func TestSessionServiceAdminWindowAndSave(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	admin := f.open(t, models.RoleAdmin, "")
	viewer := f.open(t, models.RoleApplicant, "")

	_, err := f.svc.ToggleDate(ctx, admin, d(20))
	require.NoError(t, err)

	snap, notices, err := f.svc.SetWindow(ctx, admin, timegrid.Window{Start: at(12, 0), End: at(9, 0)})
	require.NoError(t, err)
	assert.Equal(t, "12:00", snap.StartTime.String())
	require.Len(t, notices, 1)
	assert.Equal(t, models.NoticeWarning, notices[0].Level)

	_, _, err = f.svc.SaveAdmin(ctx, admin)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTimeRange))

	_, notices, err = f.svc.SetEnd(ctx, admin, at(13, 0))
	require.NoError(t, err)
	assert.Empty(t, notices)

	_, _, err = f.svc.SetStart(ctx, admin, at(9, 15))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	res, err := f.svc.Press(ctx, admin, cellAt(0, 12, 0), timegrid.ButtonPrimary)
	require.NoError(t, err)
	require.True(t, res.Applied)
	res, err = f.svc.Release(ctx, admin)
	require.NoError(t, err)
	assert.True(t, res.Slots.State(d(19), 12, 0))

	snap, notices, err = f.svc.SaveAdmin(ctx, admin)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, []timegrid.Date{d(19), d(21)}, snap.ScheduledDates.Dates())
	assert.True(t, f.state.Snapshot().BlockedSlots.State(d(19), 12, 0))

	res, err = f.svc.Press(ctx, viewer, cellAt(0, 12, 0), timegrid.ButtonPrimary)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = f.svc.Toggle(ctx, viewer, cellAt(1, 12, 30))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Slots.State(d(21), 12, 30))
}

func TestSessionServiceAdminResetClearsSharedSettings(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	admin := f.open(t, models.RoleAdmin, "")

	snap, notices, err := f.svc.ResetAdmin(ctx, admin)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, 0, snap.BlockedSlots.Len())
	assert.Equal(t, 0, snap.ScheduledDates.Len())
	assert.Nil(t, snap.StartTime)
	assert.Nil(t, snap.EndTime)

	summary, err := f.svc.Get(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Slots.Len())
	assert.Equal(t, 0, summary.DraftDates.Len())
}

func TestSessionServiceImportBlocksUpgradesLegacyDays(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	f.state.now = fixedClock(time.Date(2026, time.October, 19, 7, 30, 0, 0, time.UTC))
	ctx := context.Background()
	admin := f.open(t, models.RoleAdmin, "")

	var records []timegrid.BlockRecord
	raw := `[{"day":0,"hour":9,"minute":0,"blocked":true},{"day":2,"hour":9,"minute":30,"blocked":true}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &records))

	summary, err := f.svc.ImportBlocks(ctx, admin, records)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SelectedCount)
	assert.True(t, summary.Slots.State(d(19), 9, 0))
	assert.True(t, summary.Slots.State(d(21), 9, 30))

	bad := []timegrid.BlockRecord{{Kind: timegrid.KindDated, Date: d(19), Hour: 25}}
	_, err = f.svc.ImportBlocks(ctx, admin, bad)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSessionServiceViewUsesCache(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleMentor, "")

	view, hit, err := f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, view.Grid.Rows, 7)
	assert.True(t, view.Grid.Rows[6].LabelOnly)
	assert.False(t, view.Grid.Rows[1].Cells[1].Eligible)

	view, hit, err = f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, id, view.SessionID)
	assert.Equal(t, 1, f.cache.len())

	f.state.SetEnd(at(10, 0))
	assert.Equal(t, 0, f.cache.len())

	view, hit, err = f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, view.Grid.Rows, 3)
}

func TestSessionServiceLimitsAndSweeps(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{MaxSessions: 2, IdleTTL: 2 * time.Hour})
	ctx := context.Background()
	base := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	f.svc.now = fixedClock(base)

	stale := f.open(t, models.RoleMentor, "")
	fresh := f.open(t, models.RoleApplicant, "")
	_, err := f.svc.Create(ctx, models.RoleAdmin, "")
	assert.True(t, errors.Is(err, appErrors.ErrSessionLimit))

	f.svc.now = fixedClock(base.Add(90 * time.Minute))
	_, err = f.svc.Get(ctx, fresh)
	require.NoError(t, err)

	f.svc.now = fixedClock(base.Add(150 * time.Minute))
	assert.Equal(t, 1, f.svc.SweepIdle(ctx))

	_, err = f.svc.Get(ctx, stale)
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
	_, err = f.svc.Get(ctx, fresh)
	assert.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, fresh))
	assert.True(t, errors.Is(f.svc.Delete(ctx, fresh), appErrors.ErrSessionNotFound))
	assert.Equal(t, 0, f.svc.Count())
}
