package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/CodeurPro04/driverWago/common/logger"
	"github.com/CodeurPro04/driverWago/common/response"
)

// Recovery middleware recovers from panics with structured logging
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.RequestURI,
				)
				response.InternalServerError(w, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
