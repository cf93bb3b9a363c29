package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newthinker/signaldeck/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON wraps data in the success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	})
}

// Error writes the error envelope with an explicit status. The message of
// a *core.Error is passed through as is, so backend wording reaches the
// caller unchanged.
func Error(w http.ResponseWriter, status int, err error) {
	write(w, status, ErrorResponse{Error: detailFor(err)})
}

// Fail is Error with the status chosen by StatusFor.
func Fail(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}

func detailFor(err error) ErrorDetail {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return ErrorDetail{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}
	}

	detail := ErrorDetail{Code: coreErr.Code, Message: coreErr.Message}
	if coreErr.Cause != nil {
		detail.Cause = coreErr.Cause.Error()
	}
	return detail
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps an error to the HTTP status the local API answers with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSettingsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrConfigMissing), errors.Is(err, core.ErrConfigInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrTransport):
		return http.StatusGatewayTimeout
	case errors.Is(err, core.ErrBackend), errors.Is(err, core.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
