package errors

import (
	"net/http"
)

// RecoveryMiddleware turns panics anywhere below it into RFC 7807
// responses through the shared ErrorHandler, so a crashing pipeline run
// answers the same way as any other server failure. It sits directly
// after the logging middleware in the router chain.
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					handler.HandlePanic(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
