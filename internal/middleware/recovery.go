package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/internal/domain/dto"
	"github.com/guttosm/bocspot/internal/logger"
)

// RecoveryMiddleware turns a panic in any later handler into a 500 with an
// ErrorResponse body. The panic value and stack are logged at error level.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			rid, _ := c.Get(RequestIDKey)
			logger.L().Error().
				Str("request_id", toString(rid)).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", fmt.Errorf("%v", r)))
		}()
		c.Next()
	}
}
