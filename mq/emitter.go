package mq

import (
	"context"
	"encoding/json"
	"log"

	"parkhub/models"
	"parkhub/rdx"
)

// SlotEventsChannel is the Redis pub/sub channel carrying slot events.
const SlotEventsChannel = "slot-events"

// Emit publishes a slot event to Redis. Fire-and-forget: failures are
// logged and never surfaced to the caller.
func Emit(ctx context.Context, event models.SlotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal slot event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), SlotEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish slot event: %v", err)
		return
	}
}

// StartSlotEventWorker subscribes to the slot-events channel and hands
// each event to sink (the WebSocket broadcaster). Runs until the
// subscription channel closes.
func StartSlotEventWorker(sink func(models.SlotEvent)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, SlotEventsChannel)
	ch := sub.Channel()

	log.Println("[SlotEventWorker] Listening for slot events...")

	for msg := range ch {
		var event models.SlotEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[SlotEventWorker] Failed to parse event: %v", err)
			continue
		}
		sink(event)
	}
}
