package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestBoardLatestUnknownView(t *testing.T) {
	_, err := NewBoard().Latest("favorites")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBoardPassLifecycle(t *testing.T) {
	b := NewBoard()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	require.True(t, b.Publish("favorites", "p1", weather.Loading()))
	e, err := b.Latest("favorites")
	require.NoError(t, err)
	assert.Equal(t, weather.PhaseLoading, e.State.Phase)
	assert.Equal(t, "p1", e.PassID)
	assert.Equal(t, fixed, e.UpdatedAt)

	ready := weather.Ready(weather.OutcomeMap{"Houston": weather.Failure("x")})
	require.True(t, b.Publish("favorites", "p1", ready))
	e, err = b.Latest("favorites")
	require.NoError(t, err)
	assert.Equal(t, ready, e.State)
}

func TestBoardDropsSupersededPass(t *testing.T) {
	b := NewBoard()

	b.Publish("all", "old", weather.Loading())
	b.Publish("all", "new", weather.Loading())

	assert.False(t, b.Publish("all", "old", weather.Ready(weather.OutcomeMap{})))
	e, err := b.Latest("all")
	require.NoError(t, err)
	assert.Equal(t, "new", e.PassID)
	assert.Equal(t, weather.PhaseLoading, e.State.Phase)
}

func TestBoardRejectsTerminalWithoutLoading(t *testing.T) {
	b := NewBoard()
	assert.False(t, b.Publish("all", "p1", weather.FatalError("boom")))
	_, err := b.Latest("all")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoardViewsAreIndependent(t *testing.T) {
	b := NewBoard()
	observe := b.Observer("favorites")

	observe("p1", weather.Loading())
	observe("p1", weather.FatalError("boom"))
	b.Publish("all", "p2", weather.Loading())

	fav, err := b.Latest("favorites")
	require.NoError(t, err)
	assert.Equal(t, weather.PhaseFatal, fav.State.Phase)

	all, err := b.Latest("all")
	require.NoError(t, err)
	assert.Equal(t, weather.PhaseLoading, all.State.Phase)
}

func TestBoardInterleavedMounts(t *testing.T) {
	b := NewBoard()

	require.True(t, b.Publish("favorites", "A", weather.Loading()))
	require.True(t, b.Publish("favorites", "B", weather.Loading()))

	readyB := weather.Ready(weather.OutcomeMap{"Houston": weather.Failure("b")})
	assert.True(t, b.Publish("favorites", "B", readyB))
	assert.False(t, b.Publish("favorites", "A", weather.Ready(weather.OutcomeMap{})))

	e, err := b.Latest("favorites")
	require.NoError(t, err)
	assert.Equal(t, "B", e.PassID)
	assert.Equal(t, readyB, e.State)
}
