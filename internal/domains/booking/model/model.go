package model

import (
	userModel "lockngo/internal/domains/user/model"
	"sort"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// AgentInfo is the agent profile as it was when the booking was accepted.
type AgentInfo struct {
	ID       string
	Name     string
	Phone    string
	Rating   float64
	Vehicle  string
	Verified bool
}

func NewAgentInfo(agent userModel.User) AgentInfo {
	return AgentInfo{
		ID:       agent.ID,
		Name:     agent.Name,
		Phone:    agent.Phone,
		Rating:   agent.Rating,
		Vehicle:  agent.Vehicle,
		Verified: agent.Verified,
	}
}

type Booking struct {
	ID                string
	BookingCode       string
	UserID            string
	AgentID           string
	PickupAddress     string
	DropAddress       string
	LuggageWeight     float64
	Price             float64
	Status            Status
	PaymentStatus     PaymentStatus
	QRToken           string
	CreatedAt         time.Time
	PickupTimestamp   time.Time
	DeliveryTimestamp time.Time
	Agent             *AgentInfo
}

// LockKey is the key that serializes every change to one booking.
func LockKey(bookingID string) string {
	return EntityName + ":" + bookingID
}

func (b Booking) Clone() Booking {
	if b.Agent != nil {
		agent := *b.Agent
		b.Agent = &agent
	}

	return b
}

func (b Booking) IsAssigned() bool {
	return b.AgentID != ""
}

func (b Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// SortNewestFirst orders bookings by creation time, newest first. Ties keep the
// later-inserted booking first.
func SortNewestFirst(bookings []Booking) {
	for i, j := 0, len(bookings)-1; i < j; i, j = i+1, j-1 {
		bookings[i], bookings[j] = bookings[j], bookings[i]
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
