package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"lockngo/config"
	"lockngo/helper"
	"lockngo/infras/jwt"
	"lockngo/infras/otel/mocks"
	"lockngo/infras/sqlite"
	authService "lockngo/internal/domains/auth/service"
	bookingRepository "lockngo/internal/domains/booking/repository"
	bookingService "lockngo/internal/domains/booking/service"
	eventMocks "lockngo/internal/domains/event/mocks"
	"lockngo/internal/domains/payment/gateway"
	paymentRepository "lockngo/internal/domains/payment/repository"
	paymentService "lockngo/internal/domains/payment/service"
	reportService "lockngo/internal/domains/report/service"
	userRepository "lockngo/internal/domains/user/repository"
	userService "lockngo/internal/domains/user/service"
	authHandler "lockngo/internal/handlers/auth"
	bookingHandler "lockngo/internal/handlers/booking"
	paymentHandler "lockngo/internal/handlers/payment"
	reportHandler "lockngo/internal/handlers/report"
	userHandler "lockngo/internal/handlers/user"
	"lockngo/permissions"
	"lockngo/shared/cache"
	cacheMocks "lockngo/shared/cache/mocks"
	clockMocks "lockngo/shared/clock/mocks"
	"lockngo/shared/constant"
	generatorMocks "lockngo/shared/generator/mocks"
	"lockngo/shared/latency"
	"lockngo/shared/scheduler"
	transportHTTP "lockngo/transport/http"
	"lockngo/transport/http/middleware"
	"lockngo/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type server struct {
	handler http.Handler
	clock   *clockMocks.Clock
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment
	cfg.App.Name = "lockngo"
	cfg.JWT.AccessSecret = "access"
	cfg.JWT.RefreshSecret = "refresh"
	cfg.JWT.AccessExpireMin = 60
	cfg.JWT.RefreshExpireMin = 1440
	cfg.Lifecycle.BaseFee = 15
	cfg.Lifecycle.RatePerKg = 0.35
	cfg.Lifecycle.PickupTransitDelayMs = 3000
	cfg.Lifecycle.PaymentMethod = "Mocked Card"
	cfg.Lifecycle.Seed = true

	ctrl := gomock.NewController(t)

	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	ot := mocks.NewOtel()
	db := sqlite.New(&config.Config{})
	clk := clockMocks.NewClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	gen := generatorMocks.NewGenerator()
	lat := latency.None()
	sched := scheduler.New(clk)
	jwtService := jwt.New(cfg)

	users := userRepository.New(ot)
	bookings := bookingRepository.New(ot)
	payments := paymentRepository.New(ot)

	auth := authService.New(cfg, db, users, jwtService, redisCache, gen, clk, publisher, ot)

	handlers := router.DomainHandlers{
		Auth:    authHandler.New(auth, ot),
		User:    userHandler.New(userService.New(db, users, publisher, clk, lat, ot), ot),
		Booking: bookingHandler.New(bookingService.New(cfg, db, bookings, users, gen, clk, sched, lat, publisher, ot), ot),
		Payment: paymentHandler.New(paymentService.New(cfg, db, payments, bookings, gateway.NewMocked(lat), gen, clk, lat, publisher, ot), ot),
		Report:  reportHandler.New(reportService.New(db, bookings, users, clk, lat, ot), ot),
	}

	require.NoError(t, helper.NewSeeder(cfg, db, users, bookings, payments, clk).Run(context.Background()))

	srv := transportHTTP.New(
		cfg,
		router.New(handlers),
		middleware.NewAppMiddleware(ot, cfg, redisCache),
		middleware.NewAuthRoleMiddleware(jwtService, auth, ot, permissions.Get(), cfg),
	)

	t.Cleanup(sched.Stop)

	return &server{handler: srv.Handler(), clock: clk}
}

func (s *server) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	if token != "" {
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var res map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}

	return rec.Code, res
}

func data(t *testing.T, res map[string]any) map[string]any {
	t.Helper()

	d, ok := res["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", res)

	return d
}

func (s *server) login(t *testing.T, email string) string {
	t.Helper()

	code, res := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, code)

	token, _ := data(t, res)["access_token"].(string)
	require.NotEmpty(t, token)

	return token
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	code, res := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, constant.ResponseHealthy, res["message"])
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)

	userToken := s.login(t, "user@example.com")
	agentToken := s.login(t, "agent@example.com")

	code, res := s.do(t, http.MethodPost, "/v1/bookings", userToken, map[string]any{
		"pickup_address": "1 Harbour St",
		"drop_address":   "Terminal 2",
		"luggage_weight": 20,
	})
	require.Equal(t, http.StatusCreated, code, res)

	booking := data(t, res)
	id, _ := booking["id"].(string)
	qr, _ := booking["qr_token"].(string)

	require.NotEmpty(t, id)
	require.NotEmpty(t, qr)
	assert.Equal(t, "u1", booking["user_id"])
	assert.InDelta(t, 22.0, booking["price"], 0.001)
	assert.Equal(t, "Created", booking["status"])

	bookingCode, _ := booking["booking_code"].(string)
	code, res = s.do(t, http.MethodGet, "/v1/bookings/code/"+bookingCode, userToken, nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, id, data(t, res)["id"])

	code, _ = s.do(t, http.MethodGet, "/v1/bookings/code/LKNG-00000", userToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/accept", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, res = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/accept", agentToken, nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "Assigned", data(t, res)["status"])
	assert.Empty(t, data(t, res)["qr_token"])

	code, _ = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/verify-pickup", agentToken, map[string]string{"qr_token": "wrong"})
	assert.NotEqual(t, http.StatusOK, code)

	code, res = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/verify-pickup", agentToken, map[string]string{"qr_token": qr})
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "Pickup Started", data(t, res)["status"])

	s.clock.Advance(3 * time.Second)

	code, res = s.do(t, http.MethodGet, "/v1/bookings/"+id, userToken, nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "In Transit", data(t, res)["status"])

	code, res = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/deliver", agentToken, nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "Delivered", data(t, res)["status"])

	code, res = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/payments", userToken, nil)
	require.Equal(t, http.StatusCreated, code, res)
	assert.InDelta(t, 22.0, data(t, res)["amount"], 0.001)

	code, _ = s.do(t, http.MethodPost, "/v1/bookings/"+id+"/payments", userToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, res = s.do(t, http.MethodGet, "/v1/bookings/"+id, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Paid", data(t, res)["payment_status"])
}

func TestUnauthenticated(t *testing.T) {
	s := newServer(t)

	code, res := s.do(t, http.MethodGet, "/v1/bookings/mine", "", nil)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, res["error"])
}
