package di

import (
	"lockngo/helper"
	"lockngo/infras/kafka"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	eventService "lockngo/internal/domains/event/service"
	"lockngo/shared/scheduler"
	"lockngo/transport/http"
)

// App is everything main needs to run the service and shut it down in order.
type App struct {
	HTTP      *http.HTTP
	DB        *sqlite.DB
	Seeder    *helper.Seeder
	Listener  eventService.Listener
	Scheduler scheduler.Scheduler
	Kafka     kafka.Client
	Otel      otel.Otel
}
