package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/casavia/estate-backend/internal/http/response"
	"github.com/casavia/estate-backend/internal/logger"
	"github.com/casavia/estate-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает отложенные ошибки централизованно. Ошибки с
// кодом отдаются клиенту как есть, всё остальное маскируется, чтобы не
// раскрывать детали хранилища.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
				entry.Warn("request error")
			} else {
				entry.Error("request error")
			}
		}

		response.Error(c, err)
	}
}
