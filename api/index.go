package handler

import (
	"lockngo/config"
	"lockngo/di"
	"lockngo/shared/logger"
	"net/http"
	"sync"
)

var (
	once sync.Once
	app  *di.App
)

// Handler is the serverless entrypoint. The container is built on the first
// request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app = di.InitializeService()

		if err := app.Seeder.Run(r.Context()); err != nil {
			logger.ErrorWithStack(err)
		}
	})

	app.HTTP.ServeHTTP(w, r)
}
