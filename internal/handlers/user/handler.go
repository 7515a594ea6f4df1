package user

import (
	"lockngo/infras/otel"
	"lockngo/internal/domains/user/service"
	"lockngo/shared"
	"lockngo/shared/constant"
	"lockngo/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/users", handler.GetUsers)
	router.Get("/users/me", handler.GetMe)
	router.Patch("/users/{id}/verify", handler.VerifyAgent)
}

// GetUsers lists every account
// @Summary List users
// @Description Admin only. Sorted by role, then name.
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[[]dto.UserResponse]
// @Failure 403 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	users, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get users")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, users)
}

// GetMe returns the caller's profile
// @Summary Current user
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	user, err := handler.service.Get(ctx, shared.ActorFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, user)
}

// VerifyAgent marks an agent as verified
// @Summary Verify agent
// @Tags User
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id}/verify [patch]
// @Security BearerAuth
func (handler *Handler) VerifyAgent(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyAgent")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	user, err := handler.service.VerifyAgent(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("agent_id", id).Msg("failed to verify agent")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Agent verified")

	response.WithJSON(writer, http.StatusOK, user)
}
