package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/internal/domain/dto"
	"github.com/guttosm/bocspot/internal/domain/models"
)

// ErrorHandler writes the last error a handler attached with c.Error, unless
// the handler already wrote a response. The status comes from StatusFor.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	status := StatusFor(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(messageFor(status), err))
}

// StatusFor maps domain errors to HTTP statuses.
//
//	ErrNotFound                          404
//	ErrNetwork, ErrStructure, ErrParse   502 (the upstream page is at fault)
//	anything else                        500
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNetwork),
		errors.Is(err, models.ErrStructure),
		errors.Is(err, models.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "no quotes recorded"
	case http.StatusBadGateway:
		return "upstream rates page unavailable"
	default:
		return "internal server error"
	}
}

// AbortWithError stops the chain and writes an ErrorResponse with status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
