package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceEnsureIdempotent(t *testing.T) {
	p := NewPresence()
	first := Avatar{X: 1, Y: 2, Color: "#ff0000", Name: "Asha", AreaSlug: "library"}

	got := p.Ensure("u1", first)
	assert.Equal(t, first, got)

	// a second seed (rapid reconnect) must not clobber the live record
	got = p.Ensure("u1", Avatar{X: 9, Y: 9, Name: "other"})
	assert.Equal(t, first, got)
}

func TestPresenceMove(t *testing.T) {
	p := NewPresence()
	p.Ensure("u1", Avatar{X: 1, Y: 1, AreaSlug: "library"})

	require.True(t, p.Move("u1", 42, 17, ""))
	av, ok := p.Get("u1")
	require.True(t, ok)
	assert.Equal(t, 42.0, av.X)
	assert.Equal(t, 17.0, av.Y)
	assert.Equal(t, "library", av.AreaSlug, "empty area must not clear the current one")

	require.True(t, p.Move("u1", 5, 5, "food-court"))
	av, _ = p.Get("u1")
	assert.Equal(t, "food-court", av.AreaSlug)

	assert.False(t, p.Move("ghost", 0, 0, ""), "moving an unknown user is ignored")
}

func TestPresenceSnapshotIsCopy(t *testing.T) {
	p := NewPresence()
	p.Ensure("u1", Avatar{X: 1})

	snap := p.Snapshot()
	snap["u1"] = Avatar{X: 99}

	av, _ := p.Get("u1")
	assert.Equal(t, 1.0, av.X)
}

func TestPresenceRemove(t *testing.T) {
	p := NewPresence()
	p.Ensure("u1", Avatar{})
	p.Remove("u1")
	_, ok := p.Get("u1")
	assert.False(t, ok)
	assert.Empty(t, p.Snapshot())
}

func TestRandomDefaults(t *testing.T) {
	x, y := randomSpawn()
	assert.GreaterOrEqual(t, x, 200.0)
	assert.Less(t, x, 300.0)
	assert.GreaterOrEqual(t, y, 200.0)
	assert.Less(t, y, 300.0)

	assert.Regexp(t, `^#[0-9a-f]{6}$`, randomColor())

	assert.Equal(t, "User-cdef", maskName("0123456789abcdef"))
	assert.Equal(t, "User-ab", maskName("ab"))
}
