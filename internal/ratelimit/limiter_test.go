package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/testutil"
)

func newTestLimiter(t *testing.T, perActor, perIP int) (*Limiter, *testutil.Clock) {
	t.Helper()
	clk := testutil.NewClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := New(&Config{MaxPerHour: perActor, MaxIPPerHour: perIP, Clock: clk})
	t.Cleanup(limiter.Close)
	return limiter, clk
}

func TestAllow_ActorHourlyLimit(t *testing.T) {
	limiter, clk := newTestLimiter(t, 3, 100)

	for i := 0; i < 3; i++ {
		if res := limiter.Allow("alice", "203.0.113.1"); !res.Allowed {
			t.Fatalf("submission %d blocked: %s", i+1, res.Reason)
		}
		clk.Advance(time.Minute)
	}

	res := limiter.Allow("alice", "203.0.113.1")
	if res.Allowed {
		t.Fatal("fourth submission in the hour should be blocked")
	}
	if res.Reason != "actor_hourly_limit" {
		t.Errorf("reason = %q", res.Reason)
	}
	if res.RetryAfter != 57*time.Minute {
		t.Errorf("RetryAfter = %v, want 57m", res.RetryAfter)
	}

	if res := limiter.Allow("bob", "203.0.113.1"); !res.Allowed {
		t.Fatalf("other actor blocked: %s", res.Reason)
	}

	clk.Advance(57 * time.Minute)
	if res := limiter.Allow("alice", "203.0.113.1"); !res.Allowed {
		t.Fatalf("submission after window blocked: %s", res.Reason)
	}
}

func TestAllow_IPLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 100, 2)

	limiter.Allow("a", "198.51.100.7")
	limiter.Allow("b", "198.51.100.7")

	res := limiter.Allow("c", "198.51.100.7")
	if res.Allowed || res.Reason != "ip_hourly_limit" {
		t.Fatalf("third actor from one IP = %+v, want ip_hourly_limit", res)
	}
	if res := limiter.Allow("c", "198.51.100.8"); !res.Allowed {
		t.Fatalf("other IP blocked: %s", res.Reason)
	}
}

func TestAllow_RejectedSubmissionsAreNotCounted(t *testing.T) {
	limiter, clk := newTestLimiter(t, 1, 100)

	limiter.Allow("alice", "")
	for i := 0; i < 5; i++ {
		if limiter.Allow("alice", "").Allowed {
			t.Fatal("expected block")
		}
	}
	clk.Advance(time.Hour)
	if !limiter.Allow("alice", "").Allowed {
		t.Fatal("blocked attempts should not extend the window")
	}
}

func TestAllow_ActorNormalization(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, 100)

	limiter.Allow("Alice", "")
	if limiter.Allow("  alice ", "").Allowed {
		t.Fatal("case and whitespace variants should share a limit")
	}
}

func TestCleanupDropsExpiredEntries(t *testing.T) {
	limiter, clk := newTestLimiter(t, 10, 10)

	limiter.Allow("alice", "203.0.113.1")
	if limiter.size() != 2 {
		t.Fatalf("size = %d, want 2", limiter.size())
	}
	clk.Advance(time.Hour)
	limiter.cleanup()
	if limiter.size() != 0 {
		t.Fatalf("size after cleanup = %d, want 0", limiter.size())
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()
	if limiter.config.MaxPerHour != 30 || limiter.config.MaxIPPerHour != 120 {
		t.Fatalf("defaults = %+v", limiter.config)
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter, _ := newTestLimiter(t, 50, 1000)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("alice", "203.0.113.1").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Fatalf("allowed = %d, want exactly 50", allowed)
	}
}

func TestGetClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "TrustProxy=true, XFF rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "TrustProxy=true, XFF all private",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "TrustProxy=true, X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "TrustProxy=false, ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.100",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			r.RemoteAddr = tt.remoteAddr
			if got := GetClientIP(r, tt.trustProxy); got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := map[string]bool{
		"10.1.2.3":           true,
		"172.16.5.4":         true,
		"192.168.0.1":        true,
		"127.0.0.1":          true,
		"::1":                true,
		"::ffff:192.168.1.1": true,
		"203.0.113.5":        false,
		"not-an-ip":          false,
	}
	for ip, want := range tests {
		if got := isPrivateIP(ip); got != want {
			t.Errorf("isPrivateIP(%q) = %v, want %v", ip, got, want)
		}
	}
}
