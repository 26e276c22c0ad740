package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FILE_IMPORTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by all emitters.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Import lifecycle events, surfaced to the browser over the websocket hub.

func NewFileImportProgress(filename string, elapsed time.Duration) Event {
	return BaseEvent{
		Type: "FILE_IMPORT_PROGRESS",
		Data: map[string]interface{}{
			"filename":        filename,
			"elapsed_seconds": int(elapsed.Seconds()),
		},
		OccurredAt: time.Now(),
	}
}

func NewFileImported(filename, documentID string) Event {
	return BaseEvent{
		Type: "FILE_IMPORTED",
		Data: map[string]interface{}{
			"filename":    filename,
			"document_id": documentID,
		},
		OccurredAt: time.Now(),
	}
}

func NewFileImportFailed(filename, reason string) Event {
	return BaseEvent{
		Type: "FILE_IMPORT_FAILED",
		Data: map[string]interface{}{
			"filename": filename,
			"reason":   reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewStoreDeleted(storeName string) Event {
	return BaseEvent{
		Type: "STORE_DELETED",
		Data: map[string]interface{}{
			"store_name": storeName,
		},
		OccurredAt: time.Now(),
	}
}
