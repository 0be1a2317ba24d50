package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventEfficiencyUpdated EventType = "EFFICIENCY_UPDATED"
	EventSnapshotUpdated   EventType = "SNAPSHOT_UPDATED"
)

// ChannelEfficiency routes report-refresh events to the dashboard views
// subscribed to efficiency data.
const ChannelEfficiency = "efficiency"

// Event is the payload sent over WebSocket when a report table changes.
type Event struct {
	Type    EventType   `json:"type"`
	Channel string      `json:"channel"` // Used for routing to subscribed dashboard "rooms"
	Payload interface{} `json:"payload"`
}
