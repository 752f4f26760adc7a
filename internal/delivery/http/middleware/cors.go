package middleware

import (
	"net/http"
	"strings"
)

const (
	corsMethods = "GET, POST, PATCH, PUT, DELETE, OPTIONS"
	corsHeaders = "Authorization, Content-Type, Accept"
	corsMaxAge  = "86400"
)

// CORS restricts cross-origin access to the configured origins. Preflight
// OPTIONS requests are answered directly with 204; other requests from an
// allowed origin get the allow headers stamped on whatever status the
// handler writes. A single "*" entry allows every origin.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[o] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		ok := origin != "" && allowAll
		if !ok {
			_, ok = allowed[origin]
		}

		// Responses differ per origin, so caches must key on it.
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			if ok {
				allowOrigin(w.Header(), origin)
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if ok {
			next.ServeHTTP(&corsWriter{ResponseWriter: w, origin: origin}, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func allowOrigin(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
}

// corsWriter stamps the allow headers just before the status line goes out,
// so handlers that set their own headers are not clobbered.
type corsWriter struct {
	http.ResponseWriter
	origin string
}

func (w *corsWriter) WriteHeader(code int) {
	allowOrigin(w.ResponseWriter.Header(), w.origin)
	w.ResponseWriter.WriteHeader(code)
}
