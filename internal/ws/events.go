package ws

import (
	"encoding/json"
	"time"
)

// Envelope is the wire frame for every event in both directions:
// {"type": "...", "data": ...}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event names (client -> server).
const (
	EvJoinArea           = "joinArea"
	EvLeaveArea          = "leaveArea"
	EvMoveAvatar         = "moveAvatar"
	EvJoinRoom           = "joinRoom"
	EvSendRoomMessage    = "sendRoomMessage"
	EvSendPrivateMessage = "sendPrivateMessage"
	EvJoinClubEvent      = "joinClubEvent"
	EvLeaveClubEvent     = "leaveClubEvent"
	EvSendClubMessage    = "sendClubMessage"
)

// Outbound event names (server -> client).
const (
	EvOnlineUsersUpdate     = "onlineUsersUpdate"
	EvAvatarsUpdate         = "avatarsUpdate"
	EvAreaStatusUpdate      = "areaStatusUpdate"
	EvReceiveRoomMessage    = "receiveRoomMessage"
	EvReceivePrivateMessage = "receivePrivateMessage"
	EvClubEventUpdate       = "clubEventUpdate"
	EvReceiveClubMessage    = "receiveClubMessage"
)

type movePayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Area string  `json:"area,omitempty"`
}

type roomMessagePayload struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type privateMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

type clubEventPayload struct {
	EventRoom string `json:"eventRoom"`
}

type clubMessagePayload struct {
	EventRoom string `json:"eventRoom"`
	Text      string `json:"text"`
}

// AreaStatus tells area members to re-fetch derived area state
// (event/notice counts, online counter) from the REST API.
type AreaStatus struct {
	AreaID string `json:"areaId"`
}

type RoomMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"createdAt"`
}

type PrivateMessage struct {
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClubMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	EventRoom string    `json:"eventRoom"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClubEventUpdate struct {
	EventRoom    string   `json:"eventRoom"`
	Participants []string `json:"participants"`
}

// envelope marshals an outbound event into its wire frame.
func envelope(typ string, v any) []byte {
	data, _ := json.Marshal(v)
	b, _ := json.Marshal(Envelope{Type: typ, Data: data})
	return b
}

// knownEvent keeps the metrics label set bounded to the protocol.
func knownEvent(typ string) bool {
	switch typ {
	case EvJoinArea, EvLeaveArea, EvMoveAvatar, EvJoinRoom,
		EvSendRoomMessage, EvSendPrivateMessage,
		EvJoinClubEvent, EvLeaveClubEvent, EvSendClubMessage:
		return true
	}
	return false
}
