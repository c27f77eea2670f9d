package types

type MessageEventType string

const (
	MessageEventCreated         MessageEventType = "message_created"
	MessageEventInterviewStatus MessageEventType = "interview_status_changed"
)

// MessageEvent is published on the bus after a message is appended or its interview status changes.
type MessageEvent struct {
	Type    MessageEventType `json:"type" msgpack:"t"`
	ActorID string           `json:"actorID" msgpack:"a"`
	Message Message          `json:"message" msgpack:"m"`
}
