package httpapi

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/trackops/assetkeeper/internal/limiter"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger logs one line per request with method, path, status,
// duration and request id. No payloads, metadata only.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = ulid.Make().String()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("request_id", reqID),
			zap.String("peer", c.ClientIP()),
		)
	}
}

// WriteThrottle rate-limits mutating requests per acting user. Reads pass
// through untouched. A limiter failure is logged and the request admitted;
// throttling is an ops guard, not an availability dependency.
func WriteThrottle(lim limiter.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}
		key := c.GetHeader(actorHeader)
		if key == "" {
			key = c.ClientIP()
		}
		ok, retryAfter, err := lim.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("write limiter", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+1)))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{
				Code:    "RATE_LIMITED",
				Message: "too many write operations, slow down",
			})
			return
		}
		c.Next()
	}
}

// Recover turns panics into 500s instead of dropping the connection.
func Recover(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{
					Code:    "INTERNAL",
					Message: "internal error",
				})
			}
		}()
		c.Next()
	}
}
