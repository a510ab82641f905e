package explore

import "github.com/rpggio/hrl-explorer/internal/domain/project"

// Selection is the controller's value: zero or one project.
type Selection struct {
	Project project.Project
	Valid   bool
}

// ID returns the selected project id, or "" when nothing is selected.
func (s Selection) ID() string {
	if !s.Valid {
		return ""
	}
	return s.Project.ID
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return !s.Valid
}

// Listener receives the selection after every successful change.
type Listener func(Selection)

type listenerEntry struct {
	id int
	fn Listener
}

// Controller is the single source of truth for the selected project. It holds
// the id only and resolves it against the current store on demand.
//
// Controller is not safe for concurrent use; Session serializes access.
type Controller struct {
	store      *Store
	selectedID string

	listeners []listenerEntry
	nextID    int
	notifying bool
	dirty     bool
}

// NewController creates a controller over store with nothing selected.
func NewController(store *Store) *Controller {
	if store == nil {
		store = EmptyStore()
	}
	return &Controller{store: store}
}

// Store returns the current snapshot.
func (c *Controller) Store() *Store {
	return c.store
}

// Select sets the selection to id. Unknown ids are ignored: the call returns
// false and no listener runs.
func (c *Controller) Select(id string) bool {
	if !c.store.Contains(id) {
		return false
	}
	c.selectedID = id
	c.notify()
	return true
}

// Clear empties the selection.
func (c *Controller) Clear() {
	c.selectedID = ""
	c.notify()
}

// Current returns the selected project.
func (c *Controller) Current() (project.Project, bool) {
	sel := c.selection()
	return sel.Project, sel.Valid
}

// Selection returns the current value.
func (c *Controller) Selection() Selection {
	return c.selection()
}

// OnChange registers a listener and returns a function that removes it.
func (c *Controller) OnChange(fn Listener) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Replace swaps in a new snapshot. A selection whose project is gone degrades
// to empty and listeners are notified; a surviving selection is kept quietly.
func (c *Controller) Replace(store *Store) {
	if store == nil {
		store = EmptyStore()
	}
	c.store = store
	if c.selectedID != "" && !store.Contains(c.selectedID) {
		c.Clear()
	}
}

func (c *Controller) selection() Selection {
	if c.selectedID == "" {
		return Selection{}
	}
	p, ok := c.store.Get(c.selectedID)
	if !ok {
		return Selection{}
	}
	return Selection{Project: p, Valid: true}
}

// notify fans out the final value. A listener that changes the selection
// while a fan-out is running restarts the fan-out once the current pass ends,
// so every listener ends on the same value.
func (c *Controller) notify() {
	if c.notifying {
		c.dirty = true
		return
	}
	c.notifying = true
	defer func() { c.notifying = false }()

	for {
		c.dirty = false
		sel := c.selection()
		listeners := append([]listenerEntry(nil), c.listeners...)
		for _, l := range listeners {
			l.fn(sel)
		}
		if !c.dirty {
			return
		}
	}
}
