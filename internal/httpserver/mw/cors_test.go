package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"stash.example.com"}
	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"empty origin", "", "localhost:8080", true},
		{"same host https", "https://localhost:8080", "localhost:8080", true},
		{"same host http", "http://localhost:8080", "localhost:8080", true},
		{"allow-listed host", "https://stash.example.com", "localhost:8080", true},
		{"foreign origin", "https://evil.example.com", "localhost:8080", false},
		{"host as substring", "https://stash.example.com.evil.net", "localhost:8080", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OriginAllowed(tt.origin, tt.host, allowed); got != tt.want {
				t.Errorf("OriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestCORSEchoesAllowedOriginsOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"stash.example.com"})(next)

	t.Run("allowed origin gets credentialed headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
		r.Host = "localhost:8080"
		r.Header.Set("Origin", "https://stash.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://stash.example.com" {
			t.Errorf("Allow-Origin = %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Allow-Credentials missing")
		}
	})

	t.Run("foreign origin gets no CORS headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
		r.Host = "localhost:8080"
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want none", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, request itself should still pass through", w.Code)
		}
	})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
		r.Host = "localhost:8080"
		r.Header.Set("Origin", "http://localhost:8080")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want 204", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("preflight missing Allow-Methods")
		}
	})

	t.Run("no origin passes through untouched", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("headers set without an Origin")
		}
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}
