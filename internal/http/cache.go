package http

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"findash/internal/cache"
)

// cachedResponse is an encoded 200 response of an analytics route.
type cachedResponse struct {
	contentType string
	body        []byte
}

// uncached lists routes whose body changes even though the tables do not.
var uncached = map[string]bool{
	"/":        true,
	"/healthz": true,
	"/readyz":  true,
}

// newResponseCache returns nil when ttl is not positive, disabling caching.
func newResponseCache(size int, ttl time.Duration) *cache.LRUCache[cachedResponse] {
	if ttl <= 0 {
		return nil
	}
	if size <= 0 {
		size = 256
	}
	return cache.NewLRUCache[cachedResponse](size, ttl)
}

// cacheKey normalizes the query so that parameter order does not matter.
func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.Query().Encode()
}

// cacheMiddleware serves repeated GET requests from memory. The tables are
// immutable for the life of the process, so only the TTL bounds staleness
// of the routes that depend on the current date.
func (s *Server) cacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.responses == nil || r.Method != http.MethodGet || uncached[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)
		if hit, ok := s.responses.Get(key); ok {
			w.Header().Set("Content-Type", hit.contentType)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(hit.body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		contentType := w.Header().Get("Content-Type")
		if rec.status == http.StatusOK && strings.HasPrefix(contentType, "application/json") {
			s.responses.Set(key, cachedResponse{contentType: contentType, body: rec.body.Bytes()})
		}
	})
}

// bodyRecorder passes the response through while keeping a copy.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
