package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// lockDuration is how long the in-progress marker is held.
	lockDuration = 30 * time.Second
	// retentionDuration is how long a completed response is replayable.
	retentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type bodyCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a request
// carries an Idempotency-Key already seen from the same caller, and
// rejects concurrent retries while the first attempt is in flight.
// Requests without the header pass through untouched.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if id, ok := GetUserID(c); ok {
			caller = id.String()
		}
		storageKey := fmt.Sprintf("idempotency:%s:%s", caller, key)

		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "request already in progress",
					"code":  domainerrors.CodeConflict,
				})
				return
			}

			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) != nil {
				// Unreadable cache entry: drop it and process fresh.
				_ = redisDel(ctx, storageKey)
			} else {
				c.Header("Content-Type", "application/json")
				c.Header("X-Idempotency-Hit", "true")
				c.String(cached.Status, cached.Body)
				c.Abort()
				return
			}
		} else if !redis.IsNil(err) {
			// Redis down: serve the request rather than block writes.
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, lockDuration)
		if err != nil || !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "request already in progress",
				"code":  domainerrors.CodeConflict,
			})
			return
		}

		w := &bodyCapture{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			encoded, err := json.Marshal(cachedResponse{Status: status, Body: w.body.String()})
			if err == nil {
				_ = redisSet(ctx, storageKey, string(encoded), retentionDuration)
				return
			}
		}
		// Failed requests are retryable.
		_ = redisDel(ctx, storageKey)
	}
}
