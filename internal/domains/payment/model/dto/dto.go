package dto

import (
	"lockngo/internal/domains/payment/model"
	"lockngo/shared/constant"
	"lockngo/shared/timezone"
)

type PaymentResponse struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func (r *PaymentResponse) FromModel(payment model.Payment) {
	r.ID = payment.ID
	r.BookingID = payment.BookingID
	r.Amount = payment.Amount
	r.Method = payment.Method
	r.Status = string(payment.Status)
	r.CreatedAt = timezone.Format(payment.CreatedAt, constant.DateFormat)
}

func FromModels(payments []model.Payment) []PaymentResponse {
	res := make([]PaymentResponse, 0, len(payments))

	for _, payment := range payments {
		var r PaymentResponse
		r.FromModel(payment)
		res = append(res, r)
	}

	return res
}
