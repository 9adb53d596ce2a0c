package worldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceSignal_StartsNotVisible(t *testing.T) {
	s := NewPresenceSignal()

	var got []bool
	s.Start(func(v bool) { got = append(got, v) })

	require.Len(t, got, 1, "Start reports the current state immediately")
	assert.False(t, got[0])
}

func TestPresenceSignal_NotifiesOnTransitionsOnly(t *testing.T) {
	s := NewPresenceSignal()

	var got []bool
	s.Start(func(v bool) { got = append(got, v) })

	s.HandlePresence(1)
	s.HandlePresence(2)
	s.HandlePresence(1)
	s.HandlePresence(0)

	assert.Equal(t, []bool{false, true, false}, got)
}

func TestPresenceSignal_StopDetaches(t *testing.T) {
	s := NewPresenceSignal()

	calls := 0
	s.Start(func(bool) { calls++ })
	s.Stop()

	s.HandlePresence(1)
	assert.Equal(t, 1, calls, "only the Start notification fired")
}

func TestPresenceSignal_StateSurvivesBeforeStart(t *testing.T) {
	s := NewPresenceSignal()
	s.HandlePresence(3)

	var got []bool
	s.Start(func(v bool) { got = append(got, v) })

	require.Len(t, got, 1)
	assert.True(t, got[0], "clients connected before Start count")
}
