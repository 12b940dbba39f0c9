// Package telemetry defines the typed events that flow over the WebSocket
// connection between satnetd and its watchers. The daemon broadcasts
// these structs directly, so the schema here is the wire format.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventLog       EventType = "log"
	EventEntity    EventType = "entity_registered"
	EventAccess    EventType = "access_computed"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type      EventType `json:"type"`
	TS        string    `json:"ts"`
	Component string    `json:"component"`
}

// NewEvent stamps an envelope with the current UTC time.
func NewEvent(t EventType, component string) Event {
	return Event{Type: t, TS: time.Now().UTC().Format(time.RFC3339Nano), Component: component}
}

// Heartbeat is sent periodically so watchers can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Scenarios     int    `json:"scenarios"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. IDLE -> COMPUTING).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// EntityRegistered announces a new entity in a scenario.
type EntityRegistered struct {
	Event
	Scenario string `json:"scenario"`
	Entity   string `json:"entity"`
	Kind     string `json:"kind"`
}

// AccessComputed reports one finished access query and its result size.
type AccessComputed struct {
	Event
	Scenario      string  `json:"scenario"`
	Link          string  `json:"link"`
	Intervals     int     `json:"intervals"`
	TotalSeconds  float64 `json:"total_seconds"`
	ElapsedMillis int64   `json:"elapsed_ms"`
}
