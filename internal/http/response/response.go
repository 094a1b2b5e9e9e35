package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casavia/estate-backend/internal/pkg/apperror"
	"github.com/casavia/estate-backend/internal/repository"
)

// ErrorInfo несёт машиночитаемый код ошибки и сообщение для клиента.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response — единый конверт всех ответов API.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// OK отправляет успешный ответ.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// Error отправляет ошибку. Коды и статусы берутся из AppError; известные
// ошибки репозиториев переводятся в NOT_FOUND, всё прочее маскируется
// как внутренняя ошибка.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Success: false,
			Error:   &ErrorInfo{Code: string(appErr.Code), Message: appErr.Message},
		})
		return
	}

	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   &ErrorInfo{Code: string(apperror.ErrCodeNotFound), Message: "пользователь не найден"},
		})
		return
	}
	if errors.Is(err, repository.ErrNotificationNotFound) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   &ErrorInfo{Code: string(apperror.ErrCodeNotFound), Message: "уведомление не найдено"},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   &ErrorInfo{Code: string(apperror.ErrCodeInternal), Message: "внутренняя ошибка сервера"},
	})
}

// ValidationError отправляет ошибку валидации с текстом для клиента.
func ValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   &ErrorInfo{Code: string(apperror.ErrCodeValidation), Message: message},
	})
}
