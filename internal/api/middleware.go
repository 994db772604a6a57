package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// requestLogger logs one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			slog.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// responseCache caches successful GET responses keyed by request URI.
// A nil *responseCache passes every request through.
type responseCache struct {
	lru *expirable.LRU[string, cachedResponse]
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &responseCache{lru: expirable.NewLRU[string, cachedResponse](size, nil, ttl)}
}

func (c *responseCache) purge() {
	if c != nil {
		c.lru.Purge()
	}
}

func (c *responseCache) middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if hit, ok := c.lru.Get(key); ok {
			w.Header().Set("Content-Type", hit.contentType)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(hit.status)
			w.Write(hit.body) //nolint:errcheck
			return
		}

		var buf bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&buf)
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(ww, r)

		if ww.Status() == http.StatusOK {
			c.lru.Add(key, cachedResponse{
				status:      http.StatusOK,
				contentType: ww.Header().Get("Content-Type"),
				body:        buf.Bytes(),
			})
		}
	})
}
