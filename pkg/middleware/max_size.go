package middleware

import (
	"fmt"
	"net/http"
	apperrors "schoolclasses/pkg/errors"
)

// MaxRequestSize rejects bodies larger than limit bytes. A declared
// Content-Length over the limit is refused up front; otherwise the body is
// capped so the JSON decoder fails once the limit is crossed.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				writeAppError(w, apperrors.New(
					apperrors.CodeTooLarge,
					fmt.Sprintf("Request body exceeds %d bytes", limit),
					http.StatusRequestEntityTooLarge,
				))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
