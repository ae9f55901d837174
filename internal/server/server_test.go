package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm/internal/config"
	"crm/internal/repository/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Redis:  config.RedisConfig{RequestsPerWindow: 2, Window: time.Minute},
	}
}

func TestRouter_HealthReflectsDependency(t *testing.T) {
	up := NewRouter(testConfig(), zap.NewNop(), Deps{
		Store:  memory.NewStore(),
		Health: func(context.Context) map[string]string { return map[string]string{"status": "up"} },
	})
	w := httptest.NewRecorder()
	up.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewRouter(testConfig(), zap.NewNop(), Deps{
		Store: memory.NewStore(),
		Health: func(context.Context) map[string]string {
			return map[string]string{"status": "down", "error": "refused"}
		},
	})
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "refused", body["error"])
}

func TestRouter_ServesAPIAndStructuredNotFound(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testConfig(), zap.NewNop(), Deps{Store: memory.NewStore()}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/hello")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/api/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRouter_RateLimitsAPIWhenRedisConfigured(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	router := NewRouter(testConfig(), zap.NewNop(), Deps{Store: memory.NewStore(), Redis: redisClient})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Health is outside the limited group
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
