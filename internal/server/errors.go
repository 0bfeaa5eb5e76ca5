package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GRBadas/Planilha-Django/internal/common"
	"github.com/GRBadas/Planilha-Django/internal/model"
	"github.com/GRBadas/Planilha-Django/internal/storage"
	"github.com/gin-gonic/gin"
)

// AppError is an error with a stable code, a client-facing detail and an HTTP status.
// Internal is logged and never sent to the client.
type AppError struct {
	Internal   error
	Code       string
	Detail     string
	StatusCode int
}

func (e *AppError) Error() string { return e.Detail }

func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the sentinel's code, detail and status around internal.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Detail:     sentinel.Detail,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithDetail creates a new AppError with a custom detail.
func WithDetail(sentinel *AppError, detail string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Detail:     detail,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Response errors.
var (
	ErrInvalidInput      = &AppError{Code: "INVALID_INPUT", Detail: "Invalid input.", StatusCode: http.StatusBadRequest}
	ErrNotFound          = &AppError{Code: "NOT_FOUND", Detail: "Not found.", StatusCode: http.StatusNotFound}
	ErrInvalidPage       = &AppError{Code: "INVALID_PAGE", Detail: "Invalid page.", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Detail: "a category with this name already exists", StatusCode: http.StatusConflict}
	ErrCreditInflow      = &AppError{Code: "CREDIT_INFLOW", Detail: "credit cards do not accept inflows", StatusCode: http.StatusBadRequest}
	ErrInsufficientLimit = &AppError{Code: "INSUFFICIENT_LIMIT", Detail: "insufficient credit limit", StatusCode: http.StatusBadRequest}
	ErrUnknownCard       = &AppError{Code: "UNKNOWN_CARD", Detail: "card does not exist", StatusCode: http.StatusBadRequest}
	ErrUnknownCategory   = &AppError{Code: "UNKNOWN_CATEGORY", Detail: "category does not exist", StatusCode: http.StatusBadRequest}
	ErrCardKindLocked    = &AppError{Code: "CARD_KIND_LOCKED", Detail: "card type cannot change while it has transactions", StatusCode: http.StatusConflict}
	ErrInternalServer    = &AppError{Code: "INTERNAL_ERROR", Detail: "An internal error occurred.", StatusCode: http.StatusInternalServerError}
)

// toAppError maps storage and validation errors onto response errors.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return WithDetail(ErrInvalidInput, validationErr.Message)
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		return Wrap(ErrNotFound, err)
	case errors.Is(err, common.ErrDuplicateEntry):
		return Wrap(ErrDuplicateCategory, err)
	case errors.Is(err, storage.ErrCreditInflow):
		return Wrap(ErrCreditInflow, err)
	case errors.Is(err, storage.ErrInsufficientLimit):
		return Wrap(ErrInsufficientLimit, err)
	case errors.Is(err, storage.ErrUnknownCard):
		return Wrap(ErrUnknownCard, err)
	case errors.Is(err, storage.ErrUnknownCategory):
		return Wrap(ErrUnknownCategory, err)
	case errors.Is(err, storage.ErrCardKindLocked):
		return Wrap(ErrCardKindLocked, err)
	default:
		return Wrap(ErrInternalServer, err)
	}
}

// respondWithError writes {"detail": ..., "code": ...} with the mapped status.
func respondWithError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey))
	} else if appErr.Internal != nil {
		slog.Debug("request rejected", "code", appErr.Code, "internal", appErr.Internal.Error())
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"detail": appErr.Detail,
		"code":   appErr.Code,
	})
}
