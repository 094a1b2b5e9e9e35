package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Коды жизненного цикла переговоров. Клиент различает их,
	// чтобы показать точное сообщение, а не общую ошибку.
	ErrCodeNotYourTurn     ErrorCode = "NOT_YOUR_TURN"
	ErrCodeAlreadyTerminal ErrorCode = "ALREADY_TERMINAL"
	ErrCodeInvalidPrice    ErrorCode = "INVALID_PRICE"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeNotYourTurn:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeAlreadyTerminal:
		return http.StatusConflict
	case ErrCodeInvalidPrice:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsNotYourTurn(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotYourTurn
}

func IsAlreadyTerminal(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeAlreadyTerminal
}

func IsInvalidPrice(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidPrice
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrOfferNotFound    = New(ErrCodeNotFound, "предложение не найдено")
	ErrPropertyNotFound = New(ErrCodeNotFound, "объект недвижимости не найден")
	ErrUserNotFound     = New(ErrCodeNotFound, "пользователь не найден")
	ErrNotYourTurn      = New(ErrCodeNotYourTurn, "сейчас не ваш ход в переговорах")
	ErrAlreadyTerminal  = New(ErrCodeAlreadyTerminal, "переговоры уже завершены")
	ErrInvalidPrice     = New(ErrCodeInvalidPrice, "цена должна быть положительной")
	ErrOfferConflict    = New(ErrCodeConflict, "предложение было изменено параллельным запросом")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
)
