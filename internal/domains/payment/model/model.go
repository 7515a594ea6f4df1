package model

import (
	bookingModel "lockngo/internal/domains/booking/model"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"
)

type Payment struct {
	ID        string
	BookingID string
	UserID    string
	Amount    float64
	Method    string
	Status    bookingModel.PaymentStatus
	CreatedAt time.Time
}
