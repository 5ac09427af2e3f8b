package ws

import (
	"context"
	"encoding/json"
	"time"

	"job-tracker/internal/usecase"
)

// InvalidateEvent tells a browser tab to refetch one collection.
type InvalidateEvent struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
	Reason     string `json:"reason,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Notifier pushes invalidation events to the owner's open connections.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) PublishInvalidation(_ context.Context, evt usecase.Invalidation) {
	if n == nil || n.hub == nil {
		return
	}
	at := evt.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	for _, c := range evt.Collections {
		b, err := json.Marshal(InvalidateEvent{
			Type:       "invalidate",
			Collection: string(c),
			Reason:     evt.Reason,
			Timestamp:  at.Format(time.RFC3339),
		})
		if err != nil {
			continue
		}
		n.hub.BroadcastTo(evt.OwnerID, b)
	}
}
