package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomsJoinLeaveIdempotent(t *testing.T) {
	r := NewRooms()
	c := newConn(nil, "u1")

	assert.True(t, r.Join("library", c))
	assert.False(t, r.Join("library", c), "second join changes nothing")
	assert.True(t, r.Contains("library", c))

	assert.True(t, r.Leave("library", c))
	assert.False(t, r.Leave("library", c), "leaving when absent is a no-op")
	assert.False(t, r.Contains("library", c))
}

func TestRoomsBroadcastScoped(t *testing.T) {
	r := NewRooms()
	a := newConn(nil, "a")
	b := newConn(nil, "b")
	outsider := newConn(nil, "c")

	r.Join("campus", a)
	r.Join("campus", b)
	r.Join("elsewhere", outsider)

	r.Broadcast("campus", []byte("hi"))

	assert.Len(t, a.out, 1)
	assert.Len(t, b.out, 1)
	assert.Len(t, outsider.out, 0)
}

func TestRoomsRemoveConn(t *testing.T) {
	r := NewRooms()
	c := newConn(nil, "u1")
	r.Join("library", c)
	r.Join("campus", c)

	r.RemoveConn(c)

	assert.False(t, r.Contains("library", c))
	assert.False(t, r.Contains("campus", c))
}

func TestRoomsParticipants(t *testing.T) {
	r := NewRooms()

	assert.Equal(t, []string{"a"}, r.AddParticipant("club:chess", "a"))
	assert.Equal(t, []string{"a", "b"}, r.AddParticipant("club:chess", "b"))
	assert.Equal(t, []string{"a", "b"}, r.AddParticipant("club:chess", "a"), "duplicate join keeps the list unchanged")

	assert.Equal(t, []string{"b"}, r.RemoveParticipant("club:chess", "a"))
	assert.Empty(t, r.RemoveParticipant("club:chess", "b"))
	assert.Empty(t, r.RemoveParticipant("club:chess", "ghost"), "removing an absent user is a no-op")
}

func TestRoomsRemoveParticipantAll(t *testing.T) {
	r := NewRooms()
	r.AddParticipant("club:chess", "a")
	r.AddParticipant("club:chess", "b")
	r.AddParticipant("club:drama", "a")
	r.AddParticipant("club:music", "b")

	affected := r.RemoveParticipantAll("a")

	assert.Len(t, affected, 2)
	assert.Equal(t, []string{"b"}, affected["club:chess"])
	assert.Empty(t, affected["club:drama"])
	_, touched := affected["club:music"]
	assert.False(t, touched, "rooms without the user are not reported")
	assert.Equal(t, []string{"b"}, r.Participants("club:chess"))
}
