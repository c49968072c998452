package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/shared"
)

// RateKeyFunc names the bucket a request is counted against.
type RateKeyFunc func(r *http.Request) string

// rateRule throttles the requests match accepts. Every key function gets its
// own counter, and the request is rejected when any of them is exhausted.
type rateRule struct {
	name   string
	match  func(method, path string) bool
	keys   []RateKeyFunc
	window *fixedWindow
}

// SensitiveMutationRateLimit throttles logins per client and per email, and
// salary creation and payslip delivery per actor. Other routes pass through.
func SensitiveMutationRateLimit(perWindow int, window time.Duration) func(http.Handler) http.Handler {
	rules := []rateRule{
		{
			name:   "login",
			match:  func(method, path string) bool { return method == http.MethodPost && path == "/auth/login" },
			keys:   []RateKeyFunc{clientIPKey, jsonFieldKey("email")},
			window: newFixedWindow(max(perWindow/4, 1), window),
		},
		{
			name:   "payroll",
			match:  isPayrollMutation,
			keys:   []RateKeyFunc{actorOrIPKey},
			window: newFixedWindow(max(perWindow/2, 1), window),
		},
	}
	return rateLimit(rules)
}

// RateLimit applies one limit to every request, keyed by actor then IP.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return rateLimit([]rateRule{{
		name:   "global",
		match:  func(string, string) bool { return true },
		keys:   []RateKeyFunc{actorOrIPKey},
		window: newFixedWindow(limit, window),
	}})
}

func rateLimit(rules []rateRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, path := strings.ToUpper(r.Method), apiPath(r.URL.Path)
			for _, rule := range rules {
				if !rule.match(method, path) {
					continue
				}
				for _, keyFn := range rule.keys {
					if !rule.allow(w, r, keyFn) {
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rule rateRule) allow(w http.ResponseWriter, r *http.Request, keyFn RateKeyFunc) bool {
	key := keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	remaining, resetIn, ok := rule.window.take(rule.name+"|"+key, time.Now())

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.window.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(resetIn)))
	if ok {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(ceilSeconds(resetIn), 1)))
	slog.Warn("rate limit exceeded", "rule", rule.name, "key", key, "method", r.Method, "path", r.URL.Path)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

// isPayrollMutation matches salary record creation and payslip emails.
func isPayrollMutation(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	if path == "/salaries" {
		return true
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return len(parts) == 3 && parts[0] == "salaries" && parts[2] == "email"
}

func apiPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/api/v1")
	path = "/" + strings.Trim(path, "/")
	return path
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	return "ip:" + shared.ClientIP(r)
}

// jsonFieldKey keys on a string field of a JSON body, leaving the body
// readable for the handler. It falls back to the client IP.
func jsonFieldKey(field string) RateKeyFunc {
	return func(r *http.Request) string {
		if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			return clientIPKey(r)
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return clientIPKey(r)
		}
		var payload map[string]any
		if json.Unmarshal(raw, &payload) != nil {
			return clientIPKey(r)
		}
		value, _ := payload[field].(string)
		if value = strings.ToLower(strings.TrimSpace(value)); value == "" {
			return clientIPKey(r)
		}
		return field + ":" + value
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

type windowBucket struct {
	count int
	reset time.Time
}

// fixedWindow counts hits per key in windows of a fixed length. Expired
// buckets are swept once per window.
type fixedWindow struct {
	mu        sync.Mutex
	limit     int
	length    time.Duration
	buckets   map[string]*windowBucket
	nextSweep time.Time
}

func newFixedWindow(limit int, length time.Duration) *fixedWindow {
	return &fixedWindow{limit: limit, length: length, buckets: map[string]*windowBucket{}}
}

// take counts one hit for key and reports whether it fits the limit.
func (fw *fixedWindow) take(key string, now time.Time) (remaining int, resetIn time.Duration, ok bool) {
	if fw.limit <= 0 {
		return 0, 0, true
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if now.After(fw.nextSweep) {
		for k, b := range fw.buckets {
			if now.After(b.reset) {
				delete(fw.buckets, k)
			}
		}
		fw.nextSweep = now.Add(fw.length)
	}

	b, found := fw.buckets[key]
	if !found || now.After(b.reset) {
		b = &windowBucket{reset: now.Add(fw.length)}
		fw.buckets[key] = b
	}
	b.count++
	return max(fw.limit-b.count, 0), b.reset.Sub(now), b.count <= fw.limit
}
