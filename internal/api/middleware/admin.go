package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/fuelroute/fuelroute/internal/api/models"
)

// AdminTokenHeader carries the shared secret for admin endpoints.
const AdminTokenHeader = "X-Admin-Token"

// AdminToken creates middleware that guards admin endpoints with a shared
// secret. An empty configured token disables the endpoints entirely
// rather than leaving them open.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeUnauthorized(w, r, "admin endpoints are not configured")
				return
			}

			supplied := r.Header.Get(AdminTokenHeader)
			if supplied == "" {
				writeUnauthorized(w, r, "missing admin token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
				writeUnauthorized(w, r, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}
