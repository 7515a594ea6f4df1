package dto

import (
	"lockngo/internal/domains/booking/model"
	"lockngo/shared/constant"
	gDto "lockngo/shared/dto"
	"lockngo/shared/timezone"
)

type CreateBookingRequest struct {
	CustomerID    string  `json:"user_id"        validate:"required,notblank"`
	PickupAddress string  `json:"pickup_address" validate:"required,notblank,max=255"`
	DropAddress   string  `json:"drop_address"   validate:"required,notblank,max=255"`
	LuggageWeight float64 `json:"luggage_weight" validate:"required,gt=0,lte=1000"`
}

type VerifyPickupRequest struct {
	QRToken string `json:"qr_token" validate:"required"`
}

type AgentInfoResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Rating   float64 `json:"rating"`
	Vehicle  string  `json:"vehicle"`
	Verified bool    `json:"verified"`
}

type BookingResponse struct {
	ID                string             `json:"id"`
	BookingCode       string             `json:"booking_code"`
	UserID            string             `json:"user_id"`
	AgentID           string             `json:"agent_id,omitempty"`
	PickupAddress     string             `json:"pickup_address"`
	DropAddress       string             `json:"drop_address"`
	LuggageWeight     float64            `json:"luggage_weight"`
	Price             float64            `json:"price"`
	Status            string             `json:"status"`
	PaymentStatus     string             `json:"payment_status"`
	QRToken           string             `json:"qr_token,omitempty"`
	CreatedAt         string             `json:"created_at"`
	PickupTimestamp   *string            `json:"pickup_timestamp,omitempty"`
	DeliveryTimestamp *string            `json:"delivery_timestamp,omitempty"`
	Agent             *AgentInfoResponse `json:"agent,omitempty"`
}

// FromModel fills the response. The QR token is only revealed to the booking owner and admins.
func (r *BookingResponse) FromModel(booking model.Booking, viewerID, viewerRole string) {
	r.ID = booking.ID
	r.BookingCode = booking.BookingCode
	r.UserID = booking.UserID
	r.AgentID = booking.AgentID
	r.PickupAddress = booking.PickupAddress
	r.DropAddress = booking.DropAddress
	r.LuggageWeight = booking.LuggageWeight
	r.Price = booking.Price
	r.Status = string(booking.Status)
	r.PaymentStatus = string(booking.PaymentStatus)
	r.CreatedAt = timezone.Format(booking.CreatedAt, constant.DateFormat)
	r.PickupTimestamp = gDto.FormatTime(booking.PickupTimestamp)
	r.DeliveryTimestamp = gDto.FormatTime(booking.DeliveryTimestamp)

	if viewerID == booking.UserID || viewerRole == constant.RoleAdmin {
		r.QRToken = booking.QRToken
	}

	if booking.Agent != nil {
		r.Agent = &AgentInfoResponse{
			ID:       booking.Agent.ID,
			Name:     booking.Agent.Name,
			Phone:    booking.Agent.Phone,
			Rating:   booking.Agent.Rating,
			Vehicle:  booking.Agent.Vehicle,
			Verified: booking.Agent.Verified,
		}
	}
}

func FromModels(bookings []model.Booking, viewerID, viewerRole string) []BookingResponse {
	res := make([]BookingResponse, 0, len(bookings))

	for _, booking := range bookings {
		var r BookingResponse
		r.FromModel(booking, viewerID, viewerRole)
		res = append(res, r)
	}

	return res
}
