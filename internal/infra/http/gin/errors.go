package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/middleware"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	"staybook/internal/domain/shared/daterange"
	domainuser "staybook/internal/domain/user"
)

const (
	codeValidation       = "validation_error"
	codeNotFound         = "not_found"
	codeUnavailable      = "unavailable"
	codeAlreadyCancelled = "already_cancelled"
	codeConflict         = "conflict"
	codeInternal         = "internal_error"
)

var errInvalidDate = errors.New("dates must use the YYYY-MM-DD format")

// classify maps application errors to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domainproperty.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domainbooking.ErrUnavailable):
		return http.StatusConflict, codeUnavailable
	case errors.Is(err, domainbooking.ErrAlreadyCancelled):
		return http.StatusConflict, codeAlreadyCancelled
	case errors.Is(err, uow.ErrConcurrentUpdate):
		return http.StatusConflict, codeConflict
	case errors.Is(err, middleware.ErrInvalidInput),
		errors.Is(err, errInvalidDate),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, domainproperty.ErrNameRequired),
		errors.Is(err, domainproperty.ErrMaxGuests),
		errors.Is(err, domainproperty.ErrBasePrice),
		errors.Is(err, domainproperty.ErrGuestsExceeded),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainuser.ErrNameRequired):
		return http.StatusBadRequest, codeValidation
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// respondError attaches err to the context for the access log and writes the
// error body. Internal errors are not echoed to the client.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
}
