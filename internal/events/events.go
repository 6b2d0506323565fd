// Package events carries "reservations changed" signals between replicas
// over Kafka so each one can drop stale cached availability.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Reservation change actions.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
)

// ReservationChanged is published after every successful reservation write.
type ReservationChanged struct {
	TenantID      string    `json:"tenant_id"`
	RestaurantID  int64     `json:"restaurant_id"`
	ReservationID string    `json:"reservation_id"`
	Action        string    `json:"action"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits reservation change events.
type Publisher interface {
	Publish(ctx context.Context, evt ReservationChanged) error
	Close() error
}

// Nop is the Publisher used when Kafka is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, ReservationChanged) error { return nil }

func (Nop) Close() error { return nil }

// Encode renders evt as its wire form.
func Encode(evt ReservationChanged) ([]byte, error) {
	return json.Marshal(evt)
}

// Decode parses and validates a wire event.
func Decode(raw []byte) (ReservationChanged, error) {
	var evt ReservationChanged
	if err := json.Unmarshal(raw, &evt); err != nil {
		return ReservationChanged{}, fmt.Errorf("decode reservation event: %w", err)
	}
	if evt.TenantID == "" {
		return ReservationChanged{}, errors.New("decode reservation event: missing tenant_id")
	}
	if evt.Action == "" {
		evt.Action = "unknown"
	}
	return evt, nil
}
