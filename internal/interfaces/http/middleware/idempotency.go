package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"loyalty-ledger.backend/pkg/cache"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the recorded response for a repeated
// Idempotency-Key instead of processing the mutation twice. It complements
// the per-transaction idempotency key stored in the ledger itself.
func IdempotencyMiddleware(store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		claims, ok := GetClaims(c)
		if !ok {
			c.Next()
			return
		}
		storageKey := fmt.Sprintf("idempotency:%d:%s", claims.UserID, key)
		ctx := c.Request.Context()

		val, err := store.Get(ctx, storageKey)
		if err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Request already in progress",
					"code":  "ERR_IDEMPOTENCY_CONFLICT",
				})
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			status, body := decodeRecorded(val)
			c.String(status, body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache outage: mutate without replay protection rather than
			// block the request; the ledger's own key still guards doubles.
			c.Next()
			return
		}

		acquired, err := store.SetNX(ctx, storageKey, processingMarker, LockDuration)
		if err == nil && !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Request in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = store.Set(ctx, storageKey, encodeRecorded(c.Writer.Status(), w.body.String()), RetentionDuration)
		} else {
			_ = store.Del(ctx, storageKey)
		}
	}
}

// Recorded responses are stored as "<status>\n<body>" so a replay can carry
// the original status code, not a flat 200. The processing marker never
// collides with this format.
func encodeRecorded(status int, body string) string {
	return strconv.Itoa(status) + "\n" + body
}

func decodeRecorded(val string) (int, string) {
	head, body, found := strings.Cut(val, "\n")
	if !found {
		return http.StatusOK, val
	}
	status, err := strconv.Atoi(head)
	if err != nil {
		return http.StatusOK, val
	}
	return status, body
}
