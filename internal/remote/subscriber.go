package remote

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tablerohq/tablero/internal/events"
	"github.com/tablerohq/tablero/internal/types"
)

const (
	maxReconnectDelay  = 30 * time.Second
	baseReconnectDelay = time.Second
)

// Subscriber maintains a websocket connection to the daemon's events
// endpoint and delivers change notifications on a channel. It reconnects
// with exponential backoff when the connection drops.
type Subscriber struct {
	wsURL     string
	projectID types.ProjectID
	out       chan events.Event
}

// NewSubscriber creates a subscriber for one project's events. baseURL is
// the daemon's HTTP address; the websocket URL is derived from it.
func NewSubscriber(baseURL string, projectID types.ProjectID) *Subscriber {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/api/events"
	return &Subscriber{
		wsURL:     wsURL,
		projectID: projectID,
		out:       make(chan events.Event, 100),
	}
}

// Events is the channel change notifications arrive on. It closes when
// the context passed to Listen is cancelled.
func (s *Subscriber) Events() <-chan events.Event {
	return s.out
}

// Listen connects and forwards events until the context is cancelled
func (s *Subscriber) Listen(ctx context.Context) {
	defer close(s.out)

	delay := baseReconnectDelay
	var lastSequence int64

	for {
		conn, err := s.connect(ctx)
		if err != nil {
			slog.Warn("event connection failed, retrying", "error", err, "delay", delay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, maxReconnectDelay)
			continue
		}
		delay = baseReconnectDelay

		lastSequence = s.readLoop(ctx, conn, lastSequence)
		_ = conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (s *Subscriber) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.wsURL, nil)
	if err != nil {
		return nil, err
	}

	sub := events.Message{
		Type:      "subscribe",
		Subscribe: &events.SubscribeMessage{ProjectID: s.projectID},
	}
	if err := conn.WriteJSON(sub); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// readLoop forwards events until the connection breaks or the context is
// cancelled. Events at or below lastSequence are duplicates from a
// reconnect and are skipped. Returns the last sequence seen.
func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn, lastSequence int64) int64 {
	// Close the connection on cancellation to unblock ReadJSON; the stop
	// keeps reconnect cycles from stacking up watcher goroutines.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var msg events.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return lastSequence
		}
		if msg.Type != "event" || msg.Event == nil {
			continue
		}
		if msg.Event.SequenceID != 0 && msg.Event.SequenceID <= lastSequence {
			continue
		}
		lastSequence = msg.Event.SequenceID

		select {
		case s.out <- *msg.Event:
		default:
			slog.Warn("event channel full, notification dropped")
		}
	}
}
