//go:build wireinject
// +build wireinject

package di

import (
	"lockngo/config"
	"lockngo/helper"
	"lockngo/infras/jwt"
	"lockngo/infras/kafka"
	"lockngo/infras/otel"
	"lockngo/infras/redis"
	"lockngo/infras/sqlite"
	"lockngo/permissions"
	"lockngo/shared/cache"
	"lockngo/shared/clock"
	"lockngo/shared/generator"
	"lockngo/shared/latency"
	"lockngo/shared/scheduler"
	"lockngo/transport/http"
	"lockngo/transport/http/middleware"
	"lockngo/transport/http/router"

	"github.com/google/wire"
	authService "lockngo/internal/domains/auth/service"
	bookingRepository "lockngo/internal/domains/booking/repository"
	bookingService "lockngo/internal/domains/booking/service"
	eventService "lockngo/internal/domains/event/service"
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
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	sqlite.New,
	otel.New,
	redis.New,
	kafka.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.Revocations), new(authService.Auth)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	generator.New,
	latency.New,
	scheduler.New,
)

var eventDomain = wire.NewSet(
	eventService.NewPublisher,
	eventService.NewListener,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	gateway.NewMocked,
	paymentService.New,
)

var reportDomain = wire.NewSet(
	reportService.New,
)

var domains = wire.NewSet(
	eventDomain,
	userDomain,
	authDomain,
	bookingDomain,
	paymentDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		helper.NewSeeder,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
