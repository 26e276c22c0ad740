package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribeRoundTrip(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	assert.NoError(t, err)

	assert.NoError(t, bus.Publish(context.Background(), NewFileImported("doc.txt", "fileSearchStores/abc/documents/d1")))

	select {
	case msg := <-messages:
		var env struct {
			Type string                 `json:"type"`
			Data map[string]interface{} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(msg.Payload, &env))
		assert.Equal(t, "FILE_IMPORTED", env.Type)
		assert.Equal(t, "doc.txt", env.Data["filename"])
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
		wantKey  string
	}{
		{name: "progress", event: NewFileImportProgress("a.txt", 30*time.Second), wantType: "FILE_IMPORT_PROGRESS", wantKey: "elapsed_seconds"},
		{name: "imported", event: NewFileImported("a.txt", "d1"), wantType: "FILE_IMPORTED", wantKey: "document_id"},
		{name: "failed", event: NewFileImportFailed("a.txt", "boom"), wantType: "FILE_IMPORT_FAILED", wantKey: "reason"},
		{name: "store deleted", event: NewStoreDeleted("fileSearchStores/abc"), wantType: "STORE_DELETED", wantKey: "store_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.EventType())
			assert.Contains(t, tt.event.Payload(), tt.wantKey)
			assert.False(t, tt.event.Timestamp().IsZero())
		})
	}
}
