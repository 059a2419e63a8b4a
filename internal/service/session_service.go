package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

const (
	msgNameRequired  = "please enter your name"
	msgNoSelection   = "select at least one time slot"
	msgSubmitted     = "availability saved"
	msgAdminSaved    = "blocked time settings saved"
	msgAdminReset    = "admin settings cleared"
	msgInvalidWindow = "end time must be after start time"
)

type submissionRecorder interface {
	Record(ctx context.Context, sub models.Submission) (models.Submission, error)
}

// SessionServiceConfig tunes session lifetime.
type SessionServiceConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// SessionService owns the open page sessions. Admin sessions edit a draft of
// the shared settings; mentor and applicant sessions select availability.
type SessionService struct {
	state    *ScheduleState
	recorder submissionRecorder
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      SessionServiceConfig
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*gridSession
}

type gridSession struct {
	mu         sync.Mutex
	id         string
	role       models.Role
	name       string
	grid       *timegrid.Controller
	draftDates timegrid.DateAxis
	revision   uint64
	createdAt  time.Time
	lastSeen   time.Time
}

// NewSessionService constructs the service. It panics without a schedule state.
func NewSessionService(state *ScheduleState, recorder submissionRecorder, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg SessionServiceConfig) *SessionService {
	if state == nil {
		panic("service: session service requires a schedule state")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = NewSubmissionRecorder(nil, logger)
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	return &SessionService{
		state:    state,
		recorder: recorder,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*gridSession),
	}
}

// Create opens a session for the given role. Admin sessions start from a copy
// of the shared blocked slots and dates.
func (s *SessionService) Create(ctx context.Context, role models.Role, name string) (*models.SessionSummary, error) {
	parsed, ok := models.ParseRole(string(role))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be admin, mentor or applicant")
	}

	now := s.now().UTC()
	sess := &gridSession{
		id:        uuid.NewString(),
		role:      parsed,
		name:      strings.TrimSpace(name),
		createdAt: now,
		lastSeen:  now,
	}
	if parsed == models.RoleAdmin {
		snap := s.state.Snapshot()
		sess.draftDates = snap.ScheduledDates
		sess.grid = timegrid.NewController(s.adminLayout(sess), timegrid.WithSlots(snap.BlockedSlots))
	} else {
		sess.grid = timegrid.NewController(s.viewerLayout)
	}

	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, appErrors.ErrSessionLimit
	}
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	s.logger.Info("session opened", zap.String("session_id", sess.id), zap.String("role", string(parsed)))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.summary(), nil
}

// Get returns a session summary.
func (s *SessionService) Get(ctx context.Context, id string) (*models.SessionSummary, error) {
	var out *models.SessionSummary
	err := s.with(id, func(sess *gridSession) error {
		out = sess.summary()
		return nil
	})
	return out, err
}

// Delete closes a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return appErrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	_ = s.cache.InvalidateSession(ctx, id)
	s.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Press starts a drag gesture. Presses with a non-primary button or on an
// ineligible cell are ignored and reported as not applied.
func (s *SessionService) Press(ctx context.Context, id string, cell timegrid.Cell, button timegrid.Button) (*models.GridResult, error) {
	return s.gridEvent(id, "press", func(sess *gridSession) bool {
		return sess.grid.Press(cell, button)
	})
}

// Enter moves the drag corner. Without a gesture in progress it does nothing.
func (s *SessionService) Enter(ctx context.Context, id string, cell timegrid.Cell) (*models.GridResult, error) {
	return s.gridEvent(id, "enter", func(sess *gridSession) bool {
		if sess.grid.State() != timegrid.Dragging {
			return false
		}
		sess.grid.Enter(cell)
		return true
	})
}

// Release ends the gesture and commits its region. Release anywhere counts.
func (s *SessionService) Release(ctx context.Context, id string) (*models.GridResult, error) {
	return s.gridEvent(id, "release", func(sess *gridSession) bool {
		_, ok := sess.grid.Release()
		return ok
	})
}

// Toggle flips one cell from the keyboard.
func (s *SessionService) Toggle(ctx context.Context, id string, cell timegrid.Cell) (*models.GridResult, error) {
	return s.gridEvent(id, "toggle", func(sess *gridSession) bool {
		return sess.grid.Toggle(cell)
	})
}

// SetName updates the viewer's name.
func (s *SessionService) SetName(ctx context.Context, id, name string) (*models.SessionSummary, error) {
	return s.viewerUpdate(id, func(sess *gridSession) {
		sess.name = strings.TrimSpace(name)
	})
}

// ResetName clears only the name.
func (s *SessionService) ResetName(ctx context.Context, id string) (*models.SessionSummary, error) {
	return s.viewerUpdate(id, func(sess *gridSession) {
		sess.name = ""
	})
}

// ResetSelection clears the selected slots and the name.
func (s *SessionService) ResetSelection(ctx context.Context, id string) (*models.SessionSummary, error) {
	return s.viewerUpdate(id, func(sess *gridSession) {
		sess.name = ""
		sess.grid.Reset()
	})
}

// Submit validates and records a viewer's availability, then clears the form.
// A rejected submission leaves the session untouched.
func (s *SessionService) Submit(ctx context.Context, id string) (*models.Submission, []models.Notice, error) {
	var (
		out  *models.Submission
		role models.Role
	)
	err := s.with(id, func(sess *gridSession) error {
		role = sess.role
		if !sess.role.IsViewer() {
			return appErrors.ErrRoleMismatch
		}
		if sess.name == "" {
			return appErrors.Clone(appErrors.ErrNameRequired, msgNameRequired)
		}
		if sess.grid.Slots().CountTrue() == 0 {
			return appErrors.Clone(appErrors.ErrNoSelection, msgNoSelection)
		}

		sub, err := s.recorder.Record(ctx, models.Submission{
			SessionID:   sess.id,
			Name:        sess.name,
			Role:        sess.role,
			Slots:       sess.grid.Slots().Active(),
			SubmittedAt: s.now().UTC(),
		})
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
		}
		out = &sub

		sess.name = ""
		sess.grid.Reset()
		sess.revision++
		return nil
	})
	if err != nil {
		if role != "" {
			s.metrics.ObserveSubmission(string(role), "rejected")
		}
		return nil, nil, err
	}
	s.metrics.ObserveSubmission(string(role), "saved")
	return out, []models.Notice{models.SuccessNotice(msgSubmitted)}, nil
}

// ToggleDate adds a date to the admin draft, or removes it when present.
func (s *SessionService) ToggleDate(ctx context.Context, id string, date timegrid.Date) (*models.SessionSummary, error) {
	if date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	return s.adminUpdate(id, func(sess *gridSession) {
		sess.draftDates = sess.draftDates.Toggle(date)
	})
}

// RemoveDate drops the draft date at index. Out-of-range indices change nothing.
func (s *SessionService) RemoveDate(ctx context.Context, id string, index int) (*models.SessionSummary, error) {
	return s.adminUpdate(id, func(sess *gridSession) {
		sess.draftDates = sess.draftDates.RemoveAt(index)
	})
}

// ClearDates empties the draft dates.
func (s *SessionService) ClearDates(ctx context.Context, id string) (*models.SessionSummary, error) {
	return s.adminUpdate(id, func(sess *gridSession) {
		sess.draftDates = timegrid.DateAxis{}
	})
}

// SetStart writes the first visible row straight to the shared settings.
func (s *SessionService) SetStart(ctx context.Context, id string, t *timegrid.TimeOfDay) (*models.AdminSnapshot, []models.Notice, error) {
	return s.windowUpdate(id, []*timegrid.TimeOfDay{t}, func() models.AdminSnapshot {
		return s.state.SetStart(t)
	})
}

// SetEnd writes the exclusive end row straight to the shared settings.
func (s *SessionService) SetEnd(ctx context.Context, id string, t *timegrid.TimeOfDay) (*models.AdminSnapshot, []models.Notice, error) {
	return s.windowUpdate(id, []*timegrid.TimeOfDay{t}, func() models.AdminSnapshot {
		return s.state.SetEnd(t)
	})
}

// SetWindow writes both bounds. An inverted range is stored and reported as a
// warning notice, the grid then shows no rows.
func (s *SessionService) SetWindow(ctx context.Context, id string, w timegrid.Window) (*models.AdminSnapshot, []models.Notice, error) {
	return s.windowUpdate(id, []*timegrid.TimeOfDay{w.Start, w.End}, func() models.AdminSnapshot {
		return s.state.SetWindow(w)
	})
}

// ImportBlocks replaces the draft blocked set with records in either stored
// shape. Legacy day offsets resolve against today.
func (s *SessionService) ImportBlocks(ctx context.Context, id string, records []timegrid.BlockRecord) (*models.SessionSummary, error) {
	blocked, err := timegrid.BlocksToSlotSet(records, s.state.Today())
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.adminUpdate(id, func(sess *gridSession) {
		sess.grid.Replace(blocked)
	})
}

// SaveAdmin copies the draft blocked set and dates into the shared settings.
// It is refused while the shared window is inverted.
func (s *SessionService) SaveAdmin(ctx context.Context, id string) (*models.AdminSnapshot, []models.Notice, error) {
	var snap models.AdminSnapshot
	err := s.with(id, func(sess *gridSession) error {
		if sess.role != models.RoleAdmin {
			return appErrors.ErrRoleMismatch
		}
		if err := s.state.Snapshot().Window().Validate(); err != nil {
			return appErrors.Clone(appErrors.ErrInvalidTimeRange, msgInvalidWindow)
		}
		snap = s.state.Commit(sess.grid.Slots(), sess.draftDates)
		sess.revision++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.metrics.SetScheduleRevision(snap.Revision)
	s.logger.Info("admin settings saved",
		zap.String("session_id", id),
		zap.Int("blocked", snap.BlockedSlots.CountTrue()),
		zap.Int("dates", snap.ScheduledDates.Len()),
		zap.Uint64("revision", snap.Revision),
	)
	return &snap, []models.Notice{models.SuccessNotice(msgAdminSaved)}, nil
}

// ResetAdmin clears the draft and every shared admin setting.
func (s *SessionService) ResetAdmin(ctx context.Context, id string) (*models.AdminSnapshot, []models.Notice, error) {
	var snap models.AdminSnapshot
	err := s.with(id, func(sess *gridSession) error {
		if sess.role != models.RoleAdmin {
			return appErrors.ErrRoleMismatch
		}
		sess.grid.Reset()
		sess.draftDates = timegrid.DateAxis{}
		sess.revision++
		snap = s.state.ResetAdminSettings()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.metrics.SetScheduleRevision(snap.Revision)
	return &snap, []models.Notice{models.SuccessNotice(msgAdminReset)}, nil
}

// Role reports the role of a session.
func (s *SessionService) Role(id string) (models.Role, error) {
	sess, ok := s.lookup(id)
	if !ok {
		return "", appErrors.ErrSessionNotFound
	}
	return sess.role, nil
}

// View renders the session's grid, serving it from the view cache when possible.
// The boolean reports a cache hit.
func (s *SessionService) View(ctx context.Context, id string) (*models.GridView, bool, error) {
	var (
		out *models.GridView
		hit bool
	)
	err := s.with(id, func(sess *gridSession) error {
		scheduleRev := s.state.Snapshot().Revision
		key := s.cache.GridViewKey(sess.id, sess.revision, scheduleRev)

		var cached models.GridView
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			out, hit = &cached, true
			return nil
		}

		view := &models.GridView{
			SessionID:   sess.id,
			Role:        sess.role,
			Revision:    sess.revision,
			ScheduleRev: scheduleRev,
			Grid:        sess.grid.Render(),
		}
		_ = s.cache.Set(ctx, key, view, 0)
		out = view
		return nil
	})
	return out, hit, err
}

// Count returns the number of open sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepIdle closes sessions idle for longer than the configured TTL and
// returns how many were closed.
func (s *SessionService) SweepIdle(ctx context.Context) int {
	cutoff := s.now().UTC().Add(-s.cfg.IdleTTL)

	s.mu.RLock()
	candidates := make([]*gridSession, 0)
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.RUnlock()

	expired := make([]string, 0)
	for _, sess := range candidates {
		sess.mu.Lock()
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.id)
		}
		sess.mu.Unlock()
	}
	sort.Strings(expired)

	closed := 0
	for _, id := range expired {
		if err := s.Delete(ctx, id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		s.logger.Info("idle sessions swept", zap.Int("closed", closed))
	}
	return closed
}

// StartSweeper closes idle sessions periodically until ctx is done.
func (s *SessionService) StartSweeper(ctx context.Context) {
	if s.cfg.SweepInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.SweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepIdle(ctx)
			}
		}
	}()
}

func (s *SessionService) viewerLayout() timegrid.Layout {
	snap := s.state.Snapshot()
	return timegrid.Layout{
		Dates:    snap.ScheduledDates,
		Window:   snap.Window(),
		Eligible: timegrid.ViewerEligibility(snap.ScheduledDates, snap.BlockedSlots),
	}
}

// adminLayout reads the draft dates of sess, which is only called with sess.mu held.
func (s *SessionService) adminLayout(sess *gridSession) timegrid.LayoutSource {
	return func() timegrid.Layout {
		return timegrid.Layout{
			Dates:    sess.draftDates,
			Window:   s.state.Snapshot().Window(),
			Eligible: timegrid.AdminEligibility(sess.draftDates),
		}
	}
}

func (s *SessionService) lookup(id string) (*gridSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// with runs fn under the session lock and marks the session as seen.
func (s *SessionService) with(id string, fn func(sess *gridSession) error) error {
	sess, ok := s.lookup(id)
	if !ok {
		return appErrors.ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now().UTC()
	return fn(sess)
}

func (s *SessionService) gridEvent(id, event string, fn func(sess *gridSession) bool) (*models.GridResult, error) {
	var (
		out  *models.GridResult
		role models.Role
	)
	err := s.with(id, func(sess *gridSession) error {
		role = sess.role
		applied := fn(sess)
		if applied {
			sess.revision++
		}
		out = &models.GridResult{
			Applied:  applied,
			Dragging: sess.grid.State() == timegrid.Dragging,
			Slots:    sess.grid.Slots(),
			Revision: sess.revision,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveGridEvent(string(role), event, out.Applied)
	return out, nil
}

func (s *SessionService) viewerUpdate(id string, fn func(sess *gridSession)) (*models.SessionSummary, error) {
	return s.update(id, func(r models.Role) bool { return r.IsViewer() }, fn)
}

func (s *SessionService) adminUpdate(id string, fn func(sess *gridSession)) (*models.SessionSummary, error) {
	return s.update(id, func(r models.Role) bool { return r == models.RoleAdmin }, fn)
}

func (s *SessionService) update(id string, allowed func(models.Role) bool, fn func(sess *gridSession)) (*models.SessionSummary, error) {
	var out *models.SessionSummary
	err := s.with(id, func(sess *gridSession) error {
		if !allowed(sess.role) {
			return appErrors.ErrRoleMismatch
		}
		fn(sess)
		sess.revision++
		out = sess.summary()
		return nil
	})
	return out, err
}

func (s *SessionService) windowUpdate(id string, bounds []*timegrid.TimeOfDay, apply func() models.AdminSnapshot) (*models.AdminSnapshot, []models.Notice, error) {
	for _, t := range bounds {
		if t == nil {
			continue
		}
		if err := t.Validate(); err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
	}
	var snap models.AdminSnapshot
	err := s.with(id, func(sess *gridSession) error {
		if sess.role != models.RoleAdmin {
			return appErrors.ErrRoleMismatch
		}
		snap = apply()
		sess.revision++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.metrics.SetScheduleRevision(snap.Revision)

	var notices []models.Notice
	if err := snap.Window().Validate(); err != nil {
		notices = append(notices, models.WarningNotice(appErrors.ErrInvalidTimeRange.Code, msgInvalidWindow))
	}
	return &snap, notices, nil
}

func (sess *gridSession) summary() *models.SessionSummary {
	out := &models.SessionSummary{
		ID:            sess.id,
		Role:          sess.role,
		Name:          sess.name,
		Slots:         sess.grid.Slots(),
		SelectedCount: sess.grid.Slots().CountTrue(),
		Dragging:      sess.grid.State() == timegrid.Dragging,
		Revision:      sess.revision,
		CreatedAt:     sess.createdAt,
		LastSeenAt:    sess.lastSeen,
	}
	if sess.role == models.RoleAdmin {
		dates := sess.draftDates
		out.DraftDates = &dates
	}
	return out
}
