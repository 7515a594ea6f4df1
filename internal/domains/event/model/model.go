package model

import "time"

type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingAssigned  Type = "booking.assigned"
	TypePickupStarted    Type = "booking.pickup_started"
	TypeInTransit        Type = "booking.in_transit"
	TypeBookingDelivered Type = "booking.delivered"
	TypeBookingCancelled Type = "booking.cancelled"
	TypePaymentCaptured  Type = "payment.captured"
	TypeAgentVerified    Type = "user.agent_verified"
	TypeUserRegistered   Type = "user.registered"
)

// Event is the record published after a committed change.
type Event struct {
	Type       Type           `json:"type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Status     string         `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}
