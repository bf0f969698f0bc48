package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

type ErrorCode string

const (
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrValidation    ErrorCode = "VALIDATION"
	ErrUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrRateLimited   ErrorCode = "RATE_LIMITED"
)

type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnprocessable:
		return http.StatusUnprocessableEntity
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status. Encoding failures are logged
// through the request logger; headers are already gone by then.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ Error encoding JSON response")
	}
}

func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode()
		response := ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("⚠️ Request rejected")
		WriteJSON(w, r, status, response)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ Internal error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
