package models

import "time"

type EventType string

const (
	EventIncidentCreated   EventType = "IncidentCreated"
	EventIncidentAssigned  EventType = "IncidentAssigned"
	EventIncidentCompleted EventType = "IncidentCompleted"
	EventMessagePosted     EventType = "MessagePosted"
	EventPresenceChanged   EventType = "PresenceChanged"
	EventLocationUpdated   EventType = "LocationUpdated"
)

// Системные каналы рассылки
const (
	ChannelIncidents = "incidents"
	ChannelPresence  = "presence"
)

// Event - зафиксированное изменение, рассылаемое подписчикам канала.
// Seq присваивается рассыльщиком и строго возрастает внутри канала.
type Event struct {
	Seq        uint64    `json:"seq"`
	Channel    string    `json:"channel"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}
