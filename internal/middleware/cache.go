package middleware

import (
	"net/http"
	"strings"
)

// CacheControl sets Cache-Control per route. Taxonomy reads change rarely and
// may be cached briefly; everything else is per-recipient or a probe.
type CacheControl struct {
	publicPaths map[string]struct{}
}

func NewCacheControl(publicPaths ...string) *CacheControl {
	c := &CacheControl{publicPaths: make(map[string]struct{}, len(publicPaths))}
	for _, p := range publicPaths {
		c.publicPaths[p] = struct{}{}
	}
	return c
}

func (c *CacheControl) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")
		if _, ok := c.publicPaths[path]; ok && r.Method == http.MethodGet {
			w.Header().Set("Cache-Control", "public, max-age=300")
		} else {
			w.Header().Set("Cache-Control", "no-store")
			if strings.HasPrefix(path, "/api/") {
				w.Header().Set("Pragma", "no-cache")
			}
		}
		next.ServeHTTP(w, r)
	})
}
