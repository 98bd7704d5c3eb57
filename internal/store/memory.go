package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when a view has never been mounted.
	ErrNotFound = errors.New("no pass for view")
)

// Entry is the latest published state of a view.
type Entry struct {
	View      string        `json:"view"`
	PassID    string        `json:"passId"`
	State     weather.State `json:"state"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Board is a concurrency-safe in-memory holder of the latest pass state per
// view. A new pass replaces the previous one wholesale; nothing else is kept.
type Board struct {
	mu sync.RWMutex

	// key: view name
	views map[string]Entry

	now func() time.Time
}

// NewBoard creates an empty Board.
func NewBoard() *Board {
	return &Board{
		views: make(map[string]Entry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Publish records a state transition. Loading starts a new current pass for
// the view; any other state is accepted only from the current pass, so a
// superseded pass cannot overwrite a newer one. It reports whether the
// state was stored.
func (b *Board) Publish(view, passID string, state weather.State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.views[view]
	if state.Phase != weather.PhaseLoading && (!ok || cur.PassID != passID) {
		return false
	}

	b.views[view] = Entry{
		View:      view,
		PassID:    passID,
		State:     state,
		UpdatedAt: b.now(),
	}
	return true
}

// Observer returns a weather.Observer publishing to view.
func (b *Board) Observer(view string) weather.Observer {
	return func(passID string, state weather.State) {
		b.Publish(view, passID, state)
	}
}

// Latest returns the most recent entry for a view.
func (b *Board) Latest(view string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.views[view]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}
