package handler

import (
	"net/http"

	"github.com/slidegenius/slidegenius/internal/api/response"
	"github.com/slidegenius/slidegenius/internal/cache"
	"github.com/slidegenius/slidegenius/internal/store"
)

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
func NewHealthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}
		healthy := true

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "unreachable"
			healthy = false
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "unreachable"
			healthy = false
		}

		if !healthy {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}
		response.JSON(w, map[string]any{"status": "ok", "checks": checks})
	}
}
