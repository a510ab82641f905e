package explore

import (
	"testing"
	"time"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(newScenarioStore(t), DefaultSessionOptions(), nil)
}

func selectedCards(st State) []string {
	var ids []string
	for _, c := range st.List.Cards {
		if c.Selected {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestSession_Scenario(t *testing.T) {
	m := newTestManager(t)
	sess, created := m.Open("")
	require.True(t, created)
	require.NotEmpty(t, sess.ID)

	// Select B through the list
	require.True(t, sess.ClickCard("B"))
	st := sess.State()
	require.Equal(t, "B", st.Selection.ID)
	require.Equal(t, []string{"B"}, selectedCards(st))
	require.Equal(t, CameraState{Mode: CameraFitted, ProjectID: "B"}, st.Map.CameraState)
	require.NotNil(t, st.List.LastScroll)
	require.Equal(t, "B", st.List.LastScroll.ProjectID)

	bounds := geo.Bounds{South: 38, West: -122, North: 39, East: -121}
	require.True(t, sess.engine.Contains(bounds, geo.UniformPadding(50)))

	// Select A through the map
	require.True(t, sess.ClickOverlay("A"))
	st = sess.State()
	require.Equal(t, "A", st.Selection.ID)
	require.Equal(t, []string{"A"}, selectedCards(st))
	require.Equal(t, geo.Camera{Center: geo.LatLng{Lat: 38.5, Lng: -121.5}, Zoom: 12}, st.Map.Camera)
	require.Equal(t, "A", st.List.LastScroll.ProjectID)
	require.Equal(t, st.List.SelectedID, st.Selection.ID)

	for _, o := range st.Map.Overlays {
		require.Equal(t, o.ID == "A", o.Selected, o.ID)
	}
}

func TestSession_BothViewsAgree(t *testing.T) {
	m := newTestManager(t)
	sess, _ := m.Open("agree")

	for _, p := range scenarioProjects() {
		require.True(t, sess.ClickCard(p.ID))
		st := sess.State()
		require.Equal(t, p.ID, st.Selection.ID)
		require.Equal(t, p.ID, st.List.SelectedID)
		require.Equal(t, []string{p.ID}, selectedCards(st))

		require.True(t, sess.ClickOverlay(p.ID))
		require.Equal(t, p.ID, sess.State().Selection.ID)
	}
}

func TestSession_ClickOverlayWithoutShape(t *testing.T) {
	projects := append(scenarioProjects(), project.Project{ID: "N", Name: "No Geometry"})
	store, err := NewStore(projects)
	require.NoError(t, err)
	m := NewManager(store, DefaultSessionOptions(), nil)
	sess, _ := m.Open("s")

	require.False(t, sess.ClickOverlay("N"))
	require.Nil(t, sess.State().Selection)

	// The list still reaches it
	require.True(t, sess.ClickCard("N"))
	require.Equal(t, "N", sess.State().Selection.ID)
}

func TestSession_ClearIsSticky(t *testing.T) {
	m := newTestManager(t)
	sess, _ := m.Open("sticky")

	require.True(t, sess.Select("C"))
	before := sess.State().Map

	sess.Clear()
	after := sess.State()
	require.Nil(t, after.Selection)
	require.Equal(t, before.Camera, after.Map.Camera)
	require.Equal(t, before.CameraState, after.Map.CameraState)
	require.Empty(t, selectedCards(after))
}

func TestManager_OpenGetClose(t *testing.T) {
	m := newTestManager(t)

	sess, created := m.Open("one")
	require.True(t, created)
	again, created := m.Open("one")
	require.False(t, created)
	require.Same(t, sess, again)

	got, err := m.Get("one")
	require.NoError(t, err)
	require.Same(t, sess, got)
	require.Equal(t, []string{"one"}, m.IDs())

	require.NoError(t, m.Close("one"))
	_, err = m.Get("one")
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, m.Close("one"), ErrSessionNotFound)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(t)
	a, _ := m.Open("a")
	b, _ := m.Open("b")

	a.Select("A")
	b.Select("C")

	require.Equal(t, "A", a.State().Selection.ID)
	require.Equal(t, "C", b.State().Selection.ID)
}

func TestManager_Reload(t *testing.T) {
	m := newTestManager(t)
	keep, _ := m.Open("keep")
	lose, _ := m.Open("lose")
	keep.Select("A")
	lose.Select("B")

	store, err := NewStore([]project.Project{scenarioProjects()[0]})
	require.NoError(t, err)
	m.Reload(store)

	require.Same(t, store, m.Store())
	require.Equal(t, "A", keep.State().Selection.ID)
	require.Nil(t, lose.State().Selection)
	require.Len(t, lose.State().Map.Overlays, 1)
	require.Equal(t, "Restoration Projects (1)", lose.State().List.Title)

	// New sessions see the new snapshot
	fresh, _ := m.Open("fresh")
	require.Equal(t, 1, fresh.State().List.Count)
}

func TestManager_Sweep(t *testing.T) {
	m := newTestManager(t)
	m.Open("idle")

	require.Zero(t, m.Sweep(0))
	require.Zero(t, m.Sweep(time.Hour))

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.Equal(t, 1, m.Sweep(time.Hour))
	require.Empty(t, m.IDs())
}

func TestManager_SweepUsesManagerClock(t *testing.T) {
	m := newTestManager(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m.now = func() time.Time { return now }

	sess, _ := m.Open("busy")
	m.Open("idle")

	now = start.Add(50 * time.Minute)
	require.True(t, sess.ClickCard("A"))
	require.Equal(t, now, sess.LastActivity())

	now = start.Add(70 * time.Minute)
	require.Equal(t, 1, m.Sweep(time.Hour))
	require.Equal(t, []string{"busy"}, m.IDs())
}

func TestSession_ApplyReturnsItsOwnState(t *testing.T) {
	m := newTestManager(t)
	sess, _ := m.Open("s")

	ok, state := sess.Apply(func(in Input) bool { return in.ClickCard("B") })
	require.True(t, ok)
	require.Equal(t, "B", state.Selection.ID)
	require.Equal(t, "B", state.Map.CameraState.ProjectID)

	ok, state = sess.Apply(func(in Input) bool { return in.ClickOverlay("missing") })
	require.False(t, ok)
	require.Equal(t, "B", state.Selection.ID)

	_, state = sess.Apply(func(in Input) bool { in.Clear(); return true })
	require.Nil(t, state.Selection)
}
