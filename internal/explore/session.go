package explore

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/geo"
)

// SessionOptions configures the views each session creates.
type SessionOptions struct {
	Map      geo.MapOptions
	Viewport ViewportConfig
	List     ListLayout
}

// DefaultSessionOptions returns the standard explore page configuration.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Map:      geo.DefaultMapOptions(),
		Viewport: DefaultViewportConfig(),
		List:     DefaultListLayout(),
	}
}

// State is a consistent snapshot of one session's views.
type State struct {
	SessionID string           `json:"session_id"`
	Selection *project.Project `json:"selection"`
	List      ListRender       `json:"list"`
	Map       MapRender        `json:"map"`
}

// Session is one user's explore page: a controller, both views and a map
// engine. Every method holds the session lock, so an input event and all of
// its reactions finish before the next event starts.
type Session struct {
	ID string

	mu           sync.Mutex
	ctrl         *Controller
	list         *ListView
	viewport     *Viewport
	engine       *geo.Map
	clock        func() time.Time
	createdAt    time.Time
	lastActivity time.Time
}

func newSession(id string, store *Store, opts SessionOptions, logger *slog.Logger, clock func() time.Time) *Session {
	now := clock()
	ctrl := NewController(store)
	engine := geo.NewMap(opts.Map)
	return &Session{
		ID:           id,
		ctrl:         ctrl,
		list:         NewListView(ctrl, opts.List),
		viewport:     NewViewport(ctrl, engine, opts.Viewport, logger.With("session_id", id)),
		engine:       engine,
		clock:        clock,
		createdAt:    now,
		lastActivity: now,
	}
}

// Input applies user actions to a session whose lock is already held. It is
// only valid inside Apply.
type Input struct {
	s *Session
}

// ClickCard handles a click on a list card.
func (in Input) ClickCard(id string) bool {
	return in.s.list.Click(id)
}

// ClickOverlay handles a click on a map overlay. Projects without a rendered
// overlay cannot be clicked.
func (in Input) ClickOverlay(id string) bool {
	if !in.s.engine.Click(id) {
		return false
	}
	return in.s.ctrl.Selection().ID() == id
}

// Select sets the selection programmatically.
func (in Input) Select(id string) bool {
	return in.s.ctrl.Select(id)
}

// Clear empties the selection.
func (in Input) Clear() {
	in.s.ctrl.Clear()
}

// ScrollList scrolls the list as the user would.
func (in Input) ScrollList(top float64) {
	in.s.list.ScrollTo(top)
}

// Apply runs fn as one input event and returns the state it left behind,
// with no other event in between.
func (s *Session) Apply(fn func(Input) bool) (bool, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	ok := fn(Input{s: s})
	return ok, s.stateLocked()
}

func (s *Session) apply(fn func(Input) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return fn(Input{s: s})
}

// ClickCard handles a click on a list card.
func (s *Session) ClickCard(id string) bool {
	return s.apply(func(in Input) bool { return in.ClickCard(id) })
}

// ClickOverlay handles a click on a map overlay.
func (s *Session) ClickOverlay(id string) bool {
	return s.apply(func(in Input) bool { return in.ClickOverlay(id) })
}

// Select sets the selection programmatically.
func (s *Session) Select(id string) bool {
	return s.apply(func(in Input) bool { return in.Select(id) })
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.apply(func(in Input) bool { in.Clear(); return true })
}

// ScrollList scrolls the list as the user would.
func (s *Session) ScrollList(top float64) {
	s.apply(func(in Input) bool { in.ScrollList(top); return true })
}

// State renders both views.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		SessionID: s.ID,
		List:      s.list.Render(),
		Map:       s.viewport.Render(),
	}
	if p, ok := s.ctrl.Current(); ok {
		st.Selection = &p
	}
	return st
}

// LastActivity returns when the session last handled input.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) replace(store *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Replace(store)
	s.viewport.Refresh()
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Close()
	s.viewport.Close()
}

func (s *Session) touch() {
	s.lastActivity = s.clock()
}

// Manager owns the shared snapshot and the open sessions.
type Manager struct {
	mu       sync.RWMutex
	store    *Store
	sessions map[string]*Session
	opts     SessionOptions
	logger   *slog.Logger
	now      func() time.Time
}

// clock reads m.now at call time so sessions follow a swapped clock.
func (m *Manager) clock() time.Time {
	return m.now()
}

// NewManager creates a manager serving store.
func NewManager(store *Store, opts SessionOptions, logger *slog.Logger) *Manager {
	if store == nil {
		store = EmptyStore()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		store:    store,
		sessions: map[string]*Session{},
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Store returns the current snapshot.
func (m *Manager) Store() *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Open returns the session for id, creating it when missing. An empty id gets
// a generated one.
func (m *Manager) Open(id string) (sess *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	if sess, ok := m.sessions[id]; ok {
		return sess, false
	}
	sess = newSession(id, m.store, m.opts, m.logger, m.clock)
	m.sessions[id] = sess
	m.logger.Debug("explorer session opened", "session_id", id)
	return sess, true
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close ends a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	m.logger.Debug("explorer session closed", "session_id", id)
	return nil
}

// IDs returns the open session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reload installs a new snapshot in the manager and every open session.
// Selections whose project disappeared degrade to empty.
func (m *Manager) Reload(store *Store) {
	if store == nil {
		store = EmptyStore()
	}
	m.mu.Lock()
	m.store = store
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.replace(store)
	}
	m.logger.Info("project snapshot reloaded", "projects", store.Len(), "sessions", len(sessions))
}

// Sweep closes sessions idle for longer than maxIdle and returns how many.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := m.clock().Add(-maxIdle)
	var stale []string
	m.mu.RLock()
	for id, sess := range m.sessions {
		if sess.LastActivity().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range stale {
		if err := m.Close(id); err == nil {
			closed++
		}
	}
	return closed
}
