package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicUIEvents carries every event destined for the browser.
const TopicUIEvents = "ui_events"

// envelope is the wire shape forwarded to websocket clients.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Bus is an in-process pubsub for UI events, backed by watermill's
// gochannel transport.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	return &Bus{pubSub: pubSub}
}

func (b *Bus) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(envelope{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return b.pubSub.Publish(TopicUIEvents, msg)
}

// Subscribe returns the UI event stream. Messages must be Acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicUIEvents)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
