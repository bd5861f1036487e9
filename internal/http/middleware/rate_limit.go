package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/ledger-engine/internal/logger"
)

// RateLimitMiddleware ограничивает число пакетов с одного IP.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(c *gin.Context) {
		key := c.ClientIP()
		quota, err := instance.Get(c, key)
		if err != nil {
			logger.Log.WithError(err).Error("rate limiter недоступен")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", quota.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", quota.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", quota.Reset))

		if quota.Reached {
			logger.Log.WithField("ip", key).Warn("превышен лимит запросов")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "слишком много запросов, попробуйте позже",
			})
			return
		}

		c.Next()
	}
}
