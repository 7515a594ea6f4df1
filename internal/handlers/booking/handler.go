package booking

import (
	"lockngo/infras/otel"
	"lockngo/internal/domains/booking/model/dto"
	"lockngo/internal/domains/booking/service"
	"lockngo/shared"
	"lockngo/shared/constant"
	"lockngo/shared/validator"
	"lockngo/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings", handler.CreateBooking)
	router.Get("/bookings", handler.GetBookings)
	router.Get("/bookings/{id}", handler.GetBookingByID)
	router.Get("/bookings/code/{code}", handler.GetBookingByCode)
	router.Post("/bookings/{id}/accept", handler.AcceptBooking)
	router.Post("/bookings/{id}/verify-pickup", handler.VerifyPickup)
	router.Post("/bookings/{id}/deliver", handler.MarkDelivered)
	router.Post("/bookings/{id}/cancel", handler.CancelBooking)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a booking
// @Description Price is derived from the luggage weight. Customers book for themselves; user_id defaults to the caller.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	actor := shared.ActorFromContext(ctx)
	if req.CustomerID == "" && actor.Role == constant.RoleUser {
		req.CustomerID = actor.ID
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + actor.ID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists every booking, newest first.
// @Summary List all bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	bookings, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBookingByID returns one booking when the caller may see it.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetBookingByCode tracks a booking by the code shown on the customer's QR page.
// @Summary Track a booking by code
// @Tags Booking
// @Produce json
// @Param code path string true "Booking code, e.g. LKNG-84JG7"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/code/{code} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByCode(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByCode")
	defer scope.End()

	booking, err := handler.service.GetByCode(ctx, chi.URLParam(request, constant.RequestParamCode))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// AcceptBooking assigns the booking to the calling agent.
// @Summary Accept a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AcceptBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Accept(ctx, id, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to accept booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// VerifyPickup checks the customer's QR token and starts the pickup.
// @Summary Verify pickup
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.VerifyPickupRequest true "Scanned QR token"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/verify-pickup [post]
// @Security BearerAuth
func (handler *Handler) VerifyPickup(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyPickup")
	defer scope.End()

	req := dto.VerifyPickupRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.VerifyPickup(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to verify pickup")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// MarkDelivered completes an in-transit booking.
// @Summary Mark delivered
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/deliver [post]
// @Security BearerAuth
func (handler *Handler) MarkDelivered(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkDelivered")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.MarkDelivered(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to mark booking delivered")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// CancelBooking cancels a booking that is still in progress.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Cancel(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}
