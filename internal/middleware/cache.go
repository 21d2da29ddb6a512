package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barberdesk/booking-api/internal/cache"
)

type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses by path+query for a fixed
// TTL. There is deliberately no invalidation on write: a booking does not
// evict the cached availability for its shop/date, so reads can be stale
// for up to the TTL.
func ResponseCache(store cache.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "resp:" + c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			key += "?" + q
		}

		if body, ok := store.Get(c.Request.Context(), key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			store.Set(c.Request.Context(), key, writer.body.Bytes(), ttl)
		}
	}
}
