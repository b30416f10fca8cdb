package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"couple-pet-care/internal/ports/ratelimit"
)

// RateLimit aplica un presupuesto fijo de requests por usuario por ventana.
// name separa los contadores por grupo de rutas (care, evolution...).
// Requests sin claims pasan de largo: el handler los va a rechazar con 401
// igual, y no tiene sentido contar anónimos.
func RateLimit(store ratelimit.Store, name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := name + ":" + claims.UserID
			count, resetIn, err := store.Incr(r.Context(), key, window)
			if err != nil {
				// Store caído: dejamos pasar antes que denegar servicio.
				next.ServeHTTP(w, r)
				return
			}

			if count > limit {
				retryAfter := int(math.Ceil(resetIn.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"reason":              "RATE_LIMITED",
					"retry_after_seconds": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
