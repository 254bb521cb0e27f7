package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/pkg/cache"
)

const (
	PageCacheHeader = "X-Page-Cache"
	IndexPageKey    = "page:index:"
	PageKeyPattern  = "page:*"
)

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from store for ttl, keyed by keyPrefix plus
// the request URI. Writes never invalidate entries; they expire or are
// cleared explicitly. Cache failures degrade to an uncached response.
func CachePage(store cache.Cache, keyPrefix string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyPrefix + c.Request.URL.RequestURI()

		var page cachedPage
		found, err := store.Get(ctx, key, &page)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Page cache read failed")
		}
		if found {
			c.Header(PageCacheHeader, "HIT")
			c.Data(page.Status, page.ContentType, page.Body)
			c.Abort()
			return
		}

		c.Header(PageCacheHeader, "MISS")
		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}

		page = cachedPage{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := store.Set(ctx, key, page, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Page cache write failed")
		}
	}
}

// ClearPages drops every cached page.
func ClearPages(ctx context.Context, store cache.Cache) error {
	return store.DeletePattern(ctx, PageKeyPattern)
}
