package triage

import (
	"errors"
	"net/http"

	"github.com/mailpilot/mailpilot/internal/mail"
)

// Domain errors for triage operations.
var (
	ErrNotFound  = errors.New("triage outcome not found")
	ErrDuplicate = errors.New("triage outcome already exists")
)

// MapHTTPStatus maps triage domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, mail.ErrIngestion) {
		return http.StatusBadRequest
	}
	if errors.Is(err, mail.ErrNoToken) || errors.Is(err, mail.ErrSend) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
