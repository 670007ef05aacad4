package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/fairdeal/internal/adapters/repository"
	service "github.com/okian/fairdeal/internal/app"
	"github.com/okian/fairdeal/internal/domain/valuation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// NewKind returns kind annotated with op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags err with kind so errors.Is matches either.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, valuation.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown_category"
	case errors.Is(err, valuation.ErrMalformedContract):
		return http.StatusBadRequest, "malformed_contract"
	case errors.Is(err, valuation.ErrOutOfRange):
		return http.StatusBadRequest, "out_of_range"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "batch_too_large"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrNoStore):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
