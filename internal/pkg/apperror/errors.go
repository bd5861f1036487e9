package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeAccountFrozen     ErrorCode = "ACCOUNT_FROZEN"
	ErrCodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
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
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeAccountFrozen:
		return http.StatusConflict
	case ErrCodeInsufficientFunds, ErrCodeInvalidState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки приложения или ErrCodeInternal для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatusOf возвращает HTTP статус, соответствующий ошибке.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// Ошибки счёта клиента.
var (
	ErrAccountFrozen     = New(ErrCodeAccountFrozen, "счёт клиента заморожен")
	ErrInsufficientFunds = New(ErrCodeInsufficientFunds, "недостаточно доступных средств")
	ErrInsufficientHeld  = New(ErrCodeInsufficientFunds, "недостаточно удержанных средств")
	ErrAmountOverflow    = New(ErrCodeValidation, "сумма выходит за допустимый диапазон")
)

// Ошибки состояния транзакции и спора.
var (
	ErrWrongTarget       = New(ErrCodeInvalidState, "операция ссылается на другую транзакцию")
	ErrNotDisputeKind    = New(ErrCodeInvalidState, "операция не является спором")
	ErrNotSettlementKind = New(ErrCodeInvalidState, "операция не является урегулированием спора")
	ErrAlreadyDisputed   = New(ErrCodeInvalidState, "транзакция уже оспорена")
	ErrAlreadySettled    = New(ErrCodeInvalidState, "спор уже урегулирован")
	ErrNotDisputable     = New(ErrCodeInvalidState, "транзакцию этого типа нельзя оспорить")
	ErrNoOpenDispute     = New(ErrCodeInvalidState, "по транзакции нет открытого спора")
	ErrNotAmountBearing  = New(ErrCodeInvalidState, "у транзакции этого типа нет суммы")
)

// Ошибки обработки и хранилища.
var (
	ErrDisputedTransactionNotFound = New(ErrCodeNotFound, "оспариваемая транзакция не найдена")
	ErrSettledTransactionNotFound  = New(ErrCodeNotFound, "урегулируемая транзакция не найдена")
	ErrDuplicateTransaction        = New(ErrCodeConflict, "транзакция с таким id уже обработана")
	ErrClientMismatch              = New(ErrCodeConflict, "транзакция принадлежит другому клиенту")
	ErrClientNotFound              = New(ErrCodeNotFound, "клиент не найден")
	ErrTransactionNotFound         = New(ErrCodeNotFound, "транзакция не найдена")
)
