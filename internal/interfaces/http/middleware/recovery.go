package middleware

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"karnex/internal/shared/constants"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

// Recovery turns a handler panic into a 500 envelope. A guarded operation
// that panics never reaches its usage commit.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			c.Abort()
			return
		}
		if isBrokenConnection(recovered) {
			log.Warnw("connection broken during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", c.GetString(constants.ContextKeyRequestID),
				"error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"user_id", c.GetUint(constants.ContextKeyUserID),
			"client_key", c.GetString(constants.ContextKeyClientKey),
			"headers", redactedHeaders(c.Request),
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error occurred")
		c.Abort()
	})
}

func redactedHeaders(r *http.Request) []string {
	dump, _ := httputil.DumpRequest(r, false)
	lines := strings.Split(string(dump), "\r\n")
	for i, line := range lines {
		name, _, found := strings.Cut(line, ":")
		if found && strings.EqualFold(name, constants.HeaderAuthorization) {
			lines[i] = name + ": *"
		}
	}
	return lines
}

func isBrokenConnection(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if !errors.As(err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "connection reset by peer") || strings.Contains(msg, "broken pipe")
}

// ErrorHandler renders the last handler error when nothing was written.
func ErrorHandler(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			log.Errorw("handler error occurred",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err)

			if !c.Writer.Written() {
				utils.ErrorResponseWithError(c, err)
			}
		}
	}
}
