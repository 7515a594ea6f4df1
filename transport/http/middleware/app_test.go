package middleware_test

import (
	"errors"
	"lockngo/config"
	"lockngo/infras/otel/mocks"
	"lockngo/shared/cache"
	cacheMocks "lockngo/shared/cache/mocks"
	"lockngo/shared/constant"
	"lockngo/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func rateLimited(cfg *config.Config, redisCache cache.RedisCache) http.Handler {
	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, redisCache)

	return app.Tracing(app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
}

func limiterConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestRateLimit(t *testing.T) {
	t.Run("first request opens the window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), 1, 60).Return(nil)

		rec := httptest.NewRecorder()
		rateLimited(limiterConfig(), redisCache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, "1", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("over the limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ string, value any) error {
				*value.(*int) = 2

				return nil
			})

		rec := httptest.NewRecorder()
		rateLimited(limiterConfig(), redisCache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache down lets the request through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		rateLimited(limiterConfig(), redisCache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		redisCache := cacheMocks.NewMockRedisCache(ctrl)

		rec := httptest.NewRecorder()
		rateLimited(&config.Config{}, redisCache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
