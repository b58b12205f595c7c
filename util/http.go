package util

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/db"
	"github.com/aquaswift/aquaswift-api/middleware"
	"github.com/aquaswift/aquaswift-api/report"
	"github.com/aquaswift/aquaswift-api/types"
)

// ResponseCodeFromError resolves a status code from an error
func ResponseCodeFromError(err error) int {
	var formValidation *form.ValidationError
	var reportValidation *report.ValidationError
	var invalidID *db.InvalidIDError
	var notFound *db.NotFoundError

	switch {
	case errors.As(err, &formValidation), errors.As(err, &reportValidation), errors.As(err, &invalidID):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message to show the client for an error.
// Only validation errors carry their own text; everything else
// gets the fixed fallback
func ClientMessage(err error, fallback string) string {
	var formValidation *form.ValidationError
	if errors.As(err, &formValidation) {
		return formValidation.Message
	}

	var reportValidation *report.ValidationError
	if errors.As(err, &reportValidation) {
		return reportValidation.Error()
	}

	return fallback
}

// Error logs the error against the request
// and writes a standardized error response
func Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	ErrorWithCode(w, r, err, ResponseCodeFromError(err), ClientMessage(err, fallback))
}

// ErrorWithCode logs the error against the request and writes
// a standardized error response with a status code and message
func ErrorWithCode(w http.ResponseWriter, r *http.Request, err error, statusCode int, message string) {
	event := hlog.FromRequest(r).Warn()
	if statusCode >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).Int("status", statusCode).Msg(message)

	JSON(w, r, statusCode, types.ErrorResponse{
		Message:   message,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

// JSON renders the value as a JSON response with the status code
func JSON(w http.ResponseWriter, r *http.Request, statusCode int, value interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, value)
}
