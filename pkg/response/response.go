package response

import (
	"net/http"

	"VoxGate/pkg/errors"
	"VoxGate/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fail writes an error payload with the given status.
func Fail(c *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"error": message}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// FromError maps a coded error to its HTTP status. Server-side failures are
// logged with their upstream detail; only the generic message is echoed.
func FromError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	msg := errors.GetMessage(err)
	if code >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
			zap.String("stack", errors.GetStack(err)),
		)
		if msg == "" {
			msg = "internal server error"
		}
	}
	Fail(c, code, msg, nil)
}
