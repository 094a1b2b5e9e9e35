package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casavia/estate-backend/internal/http/response"
)

// respondUnauthorized отправляет 401 в общем конверте API.
func respondUnauthorized(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, response.Response{
		Success: false,
		Error:   &response.ErrorInfo{Code: "UNAUTHORIZED", Message: err.Error()},
	})
}
