package middlewares

import (
	"errors"
	"net/http"
	"strings"
)

const overrideField = "_method"

// MethodOverride lets HTML forms reach the PUT/PATCH/DELETE routes through a
// hidden _method field on a POST. It has to wrap the router rather than run
// as a gin middleware: gin picks the route by method before middlewares run.
// The body cap is applied here because ParseForm buffers the whole body; a
// cap installed any later would never see the read.
func MethodOverride(next http.Handler, maxFormBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && isFormEncoded(r) {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

			// ParseForm caches, so the later binding still sees the fields
			err := r.ParseForm()

			var tooLarge *http.MaxBytesError

			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			if err == nil {
				switch m := strings.ToUpper(r.PostForm.Get(overrideField)); m {
				case http.MethodPut, http.MethodPatch, http.MethodDelete:
					r.Method = m
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func isFormEncoded(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")

	return strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}
