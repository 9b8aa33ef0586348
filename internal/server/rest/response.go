// Package rest exposes the survey services as a JSON-over-HTTP API on gin.
// Every body uses the envelope {success, message?, data?}.
package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Domain errors show their own
// message; unexpected errors show fallback, and their detail is attached to
// the gin context for the request logger.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	msg := fallback
	if status < http.StatusInternalServerError {
		msg = common.Message(err, fallback)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: msg})
}
