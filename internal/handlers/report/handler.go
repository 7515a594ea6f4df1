package report

import (
	"lockngo/infras/otel"
	"lockngo/internal/domains/report/service"
	"lockngo/shared"
	"lockngo/shared/constant"
	"lockngo/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/bookings/mine", handler.GetMyBookings)
	router.Get("/bookings/jobs", handler.GetJobs)
	router.Get("/reports/overview", handler.GetOverview)
	router.Get("/reports/agent-stats", handler.GetAgentStats)
}

// GetMyBookings lists the caller's bookings, newest first.
// @Summary My bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]bookingDto.BookingResponse]
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	bookings, err := handler.service.BookingsForUser(ctx, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetJobs lists the agent's active jobs followed by open bookings.
// @Summary Agent jobs
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]bookingDto.BookingResponse]
// @Router /v1/bookings/jobs [get]
// @Security BearerAuth
func (handler *Handler) GetJobs(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobs")
	defer scope.End()

	bookings, err := handler.service.BookingsForAgent(ctx, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetOverview returns platform totals.
// @Summary Admin overview
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.OverviewResponse]
// @Router /v1/reports/overview [get]
// @Security BearerAuth
func (handler *Handler) GetOverview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOverview")
	defer scope.End()

	overview, err := handler.service.AdminOverview(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, overview)
}

// GetAgentStats returns the caller's delivery and earnings summary.
// @Summary Agent stats
// @Tags Report
// @Produce json
// @Success 200 {object} response.Data[dto.AgentStatsResponse]
// @Router /v1/reports/agent-stats [get]
// @Security BearerAuth
func (handler *Handler) GetAgentStats(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAgentStats")
	defer scope.End()

	stats, err := handler.service.AgentStats(ctx, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, stats)
}
