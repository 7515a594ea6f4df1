package payment

import (
	"lockngo/infras/otel"
	"lockngo/internal/domains/payment/service"
	"lockngo/shared"
	"lockngo/shared/constant"
	"lockngo/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings/{id}/payments", handler.CapturePayment)
	router.Get("/payments/mine", handler.GetMyPayments)
}

// CapturePayment charges the booking price.
// @Summary Pay for a booking
// @Tags Payment
// @Produce json
// @Param id path string true "Booking ID"
// @Success 201 {object} response.Data[dto.PaymentResponse]
// @Failure 402 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/payments [post]
// @Security BearerAuth
func (handler *Handler) CapturePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CapturePayment")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	payment, err := handler.service.Capture(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to capture payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment captured")

	response.WithJSON(writer, http.StatusCreated, payment)
}

// GetMyPayments lists the caller's payments.
// @Summary My payments
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Data[[]dto.PaymentResponse]
// @Router /v1/payments/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyPayments(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyPayments")
	defer scope.End()

	payments, err := handler.service.ListForUser(ctx, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, payments)
}
