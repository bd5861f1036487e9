package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/ledger-engine/internal/config"
	"github.com/ignatzorin/ledger-engine/internal/http/handlers"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:             "test",
		RateLimitLimit:  1,
		RateLimitPeriod: time.Minute,
	}
	r := SetupRouter(cfg, handlers.NewBatchHandler(handlers.BatchOptions{Precision: 4}), handlers.NewHealthHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/batches", strings.NewReader("deposit,1,1,1\n")))
	assert.Equal(t, http.StatusOK, w.Code)

	// лимит 1 запрос в минуту
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/batches", strings.NewReader("deposit,1,1,1\n")))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
