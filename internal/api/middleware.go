package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/validate"
)

// Identity headers set by the fronting proxy.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserAdmin = "X-User-Admin"
	HeaderRequestID = "X-Request-ID"
)

const (
	ctxUserID  = "daymark.user_id"
	ctxIsAdmin = "daymark.is_admin"
)

// requestID tags the request context with an id, reusing the caller's when
// one is supplied.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = logging.GenerateRequestID()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// accessLog writes one line per request once it has been served.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger := logging.LoggerFromContext(c.Request.Context())
		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			logging.KeyStatus, c.Writer.Status(),
			logging.KeyDuration, time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request", args...)
			return
		}
		logger.Debug("request", args...)
	}
}

// identity requires X-User-ID and records the caller on the context.
func identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unauthorized", "missing "+HeaderUserID+" header"))
			return
		}
		if err := validate.UserID(userID); err != nil {
			fail(c, err)
			c.Abort()
			return
		}
		admin, _ := strconv.ParseBool(c.GetHeader(HeaderUserAdmin))

		c.Set(ctxUserID, userID)
		c.Set(ctxIsAdmin, admin)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// requireAdmin rejects callers without the admin flag.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody("forbidden", "administrator access required"))
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
