package protocol

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID     MessageType = "assign_id"
	MsgRoster       MessageType = "roster"
	MsgStreamUpdate MessageType = "stream_update"

	// Client -> Server messages
	MsgHello    MessageType = "hello"
	MsgSnapshot MessageType = "snapshot"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	SessionID string `json:"session_id"`
}

// StreamerInfo is one streaming player in a roster update.
type StreamerInfo struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Live      bool   `json:"live"`
}

// RosterPayload is sent whenever the set of streamers changes.
type RosterPayload struct {
	Streamers []StreamerInfo `json:"streamers"`
}

// StreamUpdatePayload carries the latest snapshots of every live game.
type StreamUpdatePayload struct {
	Games []GameSnapshot `json:"games"`
}

// --- Client -> Server payloads ---

// HelloPayload registers a connection as a streamer or a watcher.
type HelloPayload struct {
	Name     string `json:"name"`
	Streamer bool   `json:"streamer"`
}

// GameSnapshot is a read-only view of one game, enough for a watcher to
// draw, but carrying no authority: the streaming client owns the game.
type GameSnapshot struct {
	SessionID string `json:"session_id,omitempty"`
	Name      string `json:"name,omitempty"`

	// Machine state name, e.g. "falling" or "game_over".
	State string `json:"state"`

	// Board is a flat array of FieldHeight*FieldWidth cell values
	// (0 = empty), active piece already composited in.
	Board       []int `json:"board"`
	FieldWidth  int   `json:"field_width"`
	FieldHeight int   `json:"field_height"`

	LinesCleared int `json:"lines_cleared"`
	BlocksPlaced int `json:"blocks_placed"`
	Finesse      int `json:"finesse"`
	TotalTicks   int `json:"total_ticks"`
}
