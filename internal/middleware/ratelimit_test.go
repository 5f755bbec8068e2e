package middleware

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    3,
		Window: time.Minute,
	})

	key := "ip:192.0.2.1"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Error("request 4 should be denied")
	}
}

func TestRateLimiterSeparateKeys(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
	})

	if !rl.Allow("ip:192.0.2.1") {
		t.Error("first key should be allowed")
	}
	if !rl.Allow("ip:192.0.2.2") {
		t.Error("second key should be allowed")
	}
	if rl.Allow("ip:192.0.2.1") {
		t.Error("first key second request should be denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    1,
		Window: 10 * time.Millisecond,
	})

	key := "ip:192.0.2.1"

	if !rl.Allow(key) {
		t.Error("first request should be allowed")
	}
	if rl.Allow(key) {
		t.Error("second request should be denied")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.Allow(key) {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiterManyKeys(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: time.Minute,
	})

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("ip:10.0.0.%d", i)
		if !rl.Allow(key) {
			t.Errorf("key %s first request should be allowed", key)
		}
	}
}
