package ads

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for ad operations.
var (
	ErrNotFound          = errors.New("ad not found")
	ErrDuplicate         = errors.New("ad already exists")
	ErrInvalidSubmission = errors.New("submission requires id and html")
	ErrExtraction        = errors.New("extraction failed")
)

func extractionErr(field string) error {
	return fmt.Errorf("%w: %s", ErrExtraction, field)
}

// MapHTTPStatus maps ad domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidSubmission) || errors.Is(err, ErrExtraction) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
