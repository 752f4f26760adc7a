package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	origins := []string{" https://portal.example.com/ ", "", "https://admin.example.com"}

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"preflight allowed origin", http.MethodOptions, "https://portal.example.com", http.StatusNoContent, "https://portal.example.com"},
		{"preflight unknown origin", http.MethodOptions, "https://evil.example.com", http.StatusNoContent, ""},
		{"request allowed origin", http.MethodGet, "https://admin.example.com", http.StatusOK, "https://admin.example.com"},
		{"request unknown origin", http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
		{"request no origin header", http.MethodGet, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := CORS(origins, next)
			req := httptest.NewRequest(tt.method, "http://test/events", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantAllowed, rr.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, "Origin", rr.Header().Get("Vary"))
			if tt.wantAllowed != "" {
				require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			}
			if tt.method == http.MethodOptions && tt.wantAllowed != "" {
				require.Equal(t, corsMethods, rr.Header().Get("Access-Control-Allow-Methods"))
				require.Equal(t, corsHeaders, rr.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"*"}, next)

	req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "https://anything.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
