package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("realtime=on,webp_uploads=off,beta_search=true,dark_launch=false,a=1,b=0")

	assert.True(t, m.Enabled("realtime", 1))
	assert.True(t, m.Enabled("beta_search", 1))
	assert.True(t, m.Enabled("a", 1))

	assert.False(t, m.Enabled("webp_uploads", 1))
	assert.False(t, m.Enabled("dark_launch", 1))
	assert.False(t, m.Enabled("b", 1))
}

func TestEnabled_UnknownFlagIsOff(t *testing.T) {
	m := NewManager("realtime=on")
	assert.False(t, m.Enabled("typo", 1))

	var nilManager *Manager
	assert.False(t, nilManager.Enabled("realtime", 1))
}

func TestEnabled_PercentRollout(t *testing.T) {
	m := NewManager("full=100%,none=0%,realtime=25%")

	assert.True(t, m.Enabled("full", 1))
	assert.False(t, m.Enabled("none", 1))

	// A user stays in their cohort across evaluations.
	first := m.Enabled("realtime", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("realtime", 42))
	}

	// Anonymous traffic never lands in a partial rollout.
	assert.False(t, m.Enabled("realtime", 0))
}

func TestEnabled_CohortSplit(t *testing.T) {
	m := NewManager("realtime=50%")

	on := 0
	for id := uint(1); id <= 200; id++ {
		if m.Enabled("realtime", id) {
			on++
		}
	}
	assert.Greater(t, on, 0)
	assert.Less(t, on, 200)
}

func TestNewManager_SkipsMalformedPairs(t *testing.T) {
	m := NewManager(" noequals , realtime = on , rollout = 20% , old = off , junk=maybe ")

	raw := m.Raw()
	require.Len(t, raw, 3)
	assert.Equal(t, "on", raw["realtime"])
	assert.Equal(t, "20%", raw["rollout"])
	assert.Equal(t, "off", raw["old"])
}

func TestSnapshot(t *testing.T) {
	m := NewManager("realtime=on,old=off")

	snap := m.Snapshot(123)
	require.Len(t, snap, 2)
	assert.True(t, snap["realtime"])
	assert.False(t, snap["old"])
}
