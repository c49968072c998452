package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	SecureHeaders(false)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/salaries/1/slip", nil))
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected salary data to be marked no-store")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("did not expect HSTS outside production")
	}

	rec = httptest.NewRecorder()
	SecureHeaders(true)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}
}
