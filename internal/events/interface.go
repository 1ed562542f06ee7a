package events

// Publisher is implemented by anything that can broadcast a board change to
// interested subscribers. The daemon's websocket hub is the real
// implementation; tests substitute a recorder.
type Publisher interface {
	Publish(event Event)
}
