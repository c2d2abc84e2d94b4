// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	// A near-zero refill rate makes the burst the whole budget.
	rl := NewRateLimiter(0.001, 3, false)
	defer rl.Stop()
	handler := rl.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/create", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over burst: got %d, want 429", rec.Code)
	}
}

func TestRateLimiter_GETNotLimited(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, false)
	defer rl.Stop()
	handler := rl.Middleware(okHandler)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d: got %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, true)
	defer rl.Stop()
	handler := rl.Middleware(okHandler)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", ip, rec.Code)
		}
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	defer rl.Stop()
	rl.allow("10.0.0.1")

	rl.cleanup(time.Now().Add(idleTimeout + time.Second))

	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("clients after cleanup: got %d, want 0", n)
	}
}

// TestRateLimiter_ForgedForwardedForIgnored checks that without a trusted
// proxy a client cannot reset its budget by rotating X-Forwarded-For.
func TestRateLimiter_ForgedForwardedForIgnored(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, false)
	defer rl.Stop()
	handler := rl.Middleware(okHandler)

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/create", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want[i] {
			t.Errorf("request %d (XFF %s): got %d, want %d", i+1, ip, rec.Code, want[i])
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		xff        string
		xri        string
		remote     string
		want       string
	}{
		{"forwarded for", true, "1.2.3.4, 5.6.7.8", "", "9.9.9.9:1", "1.2.3.4"},
		{"real ip", true, "", "2.2.2.2", "9.9.9.9:1", "2.2.2.2"},
		{"trusted without headers", true, "", "", "3.3.3.3:4000", "3.3.3.3"},
		{"untrusted forwarded for", false, "1.2.3.4", "", "9.9.9.9:1", "9.9.9.9"},
		{"untrusted real ip", false, "", "2.2.2.2", "9.9.9.9:1", "9.9.9.9"},
		{"remote addr", false, "", "", "3.3.3.3:4000", "3.3.3.3"},
		{"remote without port", false, "", "", "3.3.3.3", "3.3.3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
