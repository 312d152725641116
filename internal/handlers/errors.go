package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/01moynul/inventory-tracker/internal/middleware"
	"github.com/01moynul/inventory-tracker/internal/store"
	"github.com/gin-gonic/gin"
)

// ValidationError is a client mistake caught before the store is touched.
// Message is returned to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	msgInvalidID       = "invalid id"
	msgNotFound        = "not found"
	msgDuplicateSKU    = "sku must be unique"
	msgBelowZero       = "quantity cannot go below 0"
	msgAboveMax        = "quantity cannot exceed 2147483647"
	msgInternalFailure = "Server Error"
)

// statusFor maps an error onto the HTTP status and the message the client may see.
func statusFor(err error) (int, string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Message
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, store.ErrDuplicateSKU):
		return http.StatusConflict, msgDuplicateSKU
	case errors.Is(err, store.ErrNegativeQuantity):
		return http.StatusBadRequest, msgBelowZero
	case errors.Is(err, store.ErrQuantityTooLarge):
		return http.StatusBadRequest, msgAboveMax
	}
	return http.StatusInternalServerError, msgInternalFailure
}

// respondError writes {"error": msg}. Unexpected failures are logged with the
// request id and reported generically.
func respondError(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s: %v", middleware.GetRequestID(c), op, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondErrorText is respondError for the plain-text legacy form routes.
func respondErrorText(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s: %v", middleware.GetRequestID(c), op, err)
	}
	c.String(status, msg)
}
