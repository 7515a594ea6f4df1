package main

import (
	"context"
	"lockngo/config"
	"lockngo/di"
	"lockngo/shared/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.UseJSON(cfg, os.Stdout)

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := di.InitializeService()

	if err := app.Seeder.Run(ctx); err != nil {
		logger.ErrorWithStack(err)
	}

	go app.Listener.Listen(ctx)

	if err := app.HTTP.Serve(ctx); err != nil {
		logger.ErrorWithStack(err)
	}

	app.Scheduler.Stop()

	if err := app.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}

	if err := app.Kafka.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close kafka client")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Otel.Shutdown(flushCtx); err != nil {
		log.Warn().Err(err).Msg("failed to flush traces")
	}

	log.Info().Msg("lockngo stopped")
}
