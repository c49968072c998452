package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var maxErr *http.MaxBytesError
		if _, err := io.ReadAll(r.Body); errors.As(err, &maxErr) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{name: "oversized post", method: http.MethodPost, body: `{"basicSalary":60000}`, want: http.StatusRequestEntityTooLarge},
		{name: "oversized put", method: http.MethodPut, body: `{"paymentStatus":"paid"}`, want: http.StatusRequestEntityTooLarge},
		{name: "small post", method: http.MethodPost, body: `{}`, want: http.StatusNoContent},
		{name: "get is not capped", method: http.MethodGet, body: `{"basicSalary":60000}`, want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, "/", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
