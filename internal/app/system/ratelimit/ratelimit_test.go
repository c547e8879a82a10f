package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/ratelimit"
)

func TestLimiter_AllowAndReset(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("4th request should be blocked")
	}
	if !l.Allow("other") {
		t.Error("other keys have their own window")
	}

	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after Reset")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second request should be blocked")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("expected allow after window expiry")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		want   string
	}{
		{"forwarded first hop", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", "", "198.51.100.7", "10.0.0.2:1234", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/login", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ratelimit.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(100, 2)
	req := httptest.NewRequest("POST", "/auth/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(req, "User@Example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, limit := ll.Check(req, "user@example.com")
	if ok || limit != ratelimit.LimitEmail {
		t.Errorf("expected email limit, got ok=%v limit=%q", ok, limit)
	}

	ll.ResetEmail("USER@example.com")
	if ok, _ := ll.Check(req, "user@example.com"); !ok {
		t.Error("expected allow after ResetEmail")
	}
}

func TestLoginLimiter_IPLimit(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(1, 100)
	req := httptest.NewRequest("POST", "/auth/login", nil)

	if ok, _ := ll.Check(req, "a@example.com"); !ok {
		t.Fatal("first attempt should be allowed")
	}
	ok, limit := ll.Check(req, "b@example.com")
	if ok || limit != ratelimit.LimitIP {
		t.Errorf("expected ip limit, got ok=%v limit=%q", ok, limit)
	}
}
