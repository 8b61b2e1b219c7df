package middleware

import (
	"net/http"

	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/pkg/logger"
)

// DBScope gives each request its own store connections, taken on first use and
// returned to the pools when the request ends, whatever the outcome.
func DBScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := db.NewScope()
		defer func() {
			if err := scope.Close(); err != nil {
				logger.From(r.Context()).Error("failed to release store connections", "error", err)
			}
		}()

		next.ServeHTTP(w, r.WithContext(db.WithScope(r.Context(), scope)))
	})
}
