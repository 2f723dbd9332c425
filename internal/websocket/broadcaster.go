package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codr1/courtgrid/internal/events"
)

// Broadcaster is the events.Publisher that feeds the hub.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) Name() string { return "websocket" }

func (b *Broadcaster) Publish(_ context.Context, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode websocket message: %w", err)
	}
	if !b.hub.Broadcast(e.Type, data) {
		return fmt.Errorf("websocket hub unavailable, dropped event %d", e.ID)
	}
	return nil
}
