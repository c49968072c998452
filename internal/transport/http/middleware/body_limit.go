package middleware

import "net/http"

// BodyLimit caps request bodies at maxBytes. Handlers see an
// *http.MaxBytesError once the cap is crossed and answer 413.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				if maxBytes > 0 && r.Body != nil {
					if r.ContentLength > maxBytes {
						w.Header().Set("Connection", "close")
					}
					r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
