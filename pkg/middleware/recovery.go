package middleware

import (
	"fmt"
	"net/http"

	"event-swipe/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	InternalErrorLabel  = "Internal server error"
	GenericErrorMessage = "An unexpected error occurred"
)

// Recovery turns a panic into the generic 500 body. Detail is only exposed
// outside production.
func Recovery(log *logger.Logger, exposeDetail bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		detail := fmt.Sprint(recovered)
		log.Error("Recovered from panic on %s %s: %s", c.Request.Method, c.Request.URL.Path, detail)
		AbortWithInternalError(c, detail, exposeDetail)
	})
}

func AbortWithInternalError(c *gin.Context, detail string, exposeDetail bool) {
	message := GenericErrorMessage
	if exposeDetail {
		message = detail
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   InternalErrorLabel,
		"message": message,
	})
}
