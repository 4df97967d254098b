package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	c := newConn(nil, "u1")

	_, ok := r.Lookup("u1")
	assert.False(t, ok)

	r.Register("u1", c)
	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.ElementsMatch(t, []string{"u1"}, r.Online())
}

func TestRegistryReconnectSupersedes(t *testing.T) {
	r := NewRegistry()
	old := newConn(nil, "u1")
	fresh := newConn(nil, "u1")

	r.Register("u1", old)
	r.Register("u1", fresh)

	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, fresh, got)

	// the stale connection's unregister must not erase the fresh one
	assert.False(t, r.Unregister("u1", old))
	got, ok = r.Lookup("u1")
	require.True(t, ok)
	assert.Same(t, fresh, got)

	assert.True(t, r.Unregister("u1", fresh))
	_, ok = r.Lookup("u1")
	assert.False(t, ok)
}

func TestRegistryEach(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", newConn(nil, "u1"))
	r.Register("u2", newConn(nil, "u2"))

	var seen []string
	r.Each(func(c *Conn) { seen = append(seen, c.userID) })
	assert.ElementsMatch(t, []string{"u1", "u2"}, seen)
}
