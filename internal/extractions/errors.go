package extractions

import (
	"errors"
	"net/http"
)

// Domain errors for extraction operations.
var (
	ErrNotFound        = errors.New("extraction not found")
	ErrDuplicate       = errors.New("extraction already exists")
	ErrInvalidField    = errors.New("invalid field value")
	ErrApprovalBlocked = errors.New("approval blocked")
	ErrNotReviewable   = errors.New("document is not in review")
)

// MapHTTPStatus maps extraction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidField) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrApprovalBlocked) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrNotReviewable) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
