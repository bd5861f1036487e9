package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/ledger-engine/internal/logger"
	"github.com/ignatzorin/ledger-engine/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Сообщение AppError отдаётся клиенту, прочие ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode := apperror.HTTPStatusOf(err)
		message := "внутренняя ошибка сервера"
		code := apperror.ErrCodeInternal

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
			if statusCode < http.StatusInternalServerError {
				message = appErr.Message
			}
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     statusCode,
			"request_id": c.GetString(ContextRequestIDKey),
		})
		if statusCode >= http.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Warn("Request rejected")
		}

		c.JSON(statusCode, gin.H{"error": message, "code": code})
	}
}
