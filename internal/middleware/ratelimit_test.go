package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := &RateLimiter{
		buckets: make(map[string]*rateBucket),
		limit:   3,
		window:  time.Minute,
	}
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1:1234", now) {
			t.Fatalf("Expected request %d within the limit to pass", i+1)
		}
	}
	if rl.allow("10.0.0.1:1234", now) {
		t.Error("Expected the request over the limit to be rejected")
	}

	// Other IPs have their own window.
	if !rl.allow("10.0.0.2:1234", now) {
		t.Error("Expected a different IP to pass")
	}

	// Window rollover resets the count.
	if !rl.allow("10.0.0.1:1234", now.Add(2*time.Minute)) {
		t.Error("Expected the IP to pass after the window reset")
	}
}
