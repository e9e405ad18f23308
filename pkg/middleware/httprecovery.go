package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Brownie44l1/waste-classifier-api/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HTTPRecovery turns the last *api.Error attached to the context, or a panic,
// into a {"detail": ...} JSON response.
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Msgf("Panic occurred: %v\n%s", err, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("%v", err)})
				return
			}
			if len(c.Errors) > 0 && !c.Writer.Written() {
				var apiErr *api.Error
				if errors.As(c.Errors.Last().Err, &apiErr) {
					c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"detail": apiErr.Message})
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": c.Errors.Last().Error()})
			}
		}()
		c.Next()
	}
}
