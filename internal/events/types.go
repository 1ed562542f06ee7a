// Package events defines the change notifications the daemon broadcasts to
// connected boards over its websocket endpoint.
package events

import (
	"time"

	"github.com/tablerohq/tablero/internal/types"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged  EventType = "board_changed"
	EventPolicyChanged EventType = "policy_changed"
	EventPing          EventType = "ping"
	EventPong          EventType = "pong"
)

// Event represents a board change notification
type Event struct {
	Type       EventType       `json:"type"`
	ProjectID  types.ProjectID `json:"project_id"`
	StoryID    types.StoryID   `json:"story_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"sequence_id"` // Monotonically increasing, for ordering
}

// SubscribeMessage is sent by clients to subscribe to specific project updates
type SubscribeMessage struct {
	ProjectID types.ProjectID `json:"project_id"` // 0 = all projects, >0 = specific project
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}
