package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock Clock, cooldown time.Duration, perHour, ipPerHour int) *Limiter {
	return New(&Config{
		SendCooldown:     cooldown,
		SendMaxPerHour:   perHour,
		SendMaxIPPerHour: ipPerHour,
		Clock:            clock,
	})
}

func TestAllow_Cooldown(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, 60*time.Second, 5, 20)

	recipient := "ops@army.mil"
	ip := "192.168.1.1"

	if result := limiter.Allow(recipient, ip); !result.Allowed {
		t.Fatalf("first send blocked: %s", result.Reason)
	}

	clock.Advance(30 * time.Second)
	result := limiter.Allow(recipient, ip)
	if result.Allowed {
		t.Fatalf("send within cooldown was allowed")
	}
	if result.Reason != "cooldown" {
		t.Fatalf("Reason = %q, want cooldown", result.Reason)
	}
	if result.RetryAfter != 30*time.Second {
		t.Fatalf("RetryAfter = %v, want 30s", result.RetryAfter)
	}

	// A blocked attempt must not restart the cooldown.
	clock.Advance(31 * time.Second)
	if result := limiter.Allow(recipient, ip); !result.Allowed {
		t.Fatalf("send after cooldown blocked: %s", result.Reason)
	}
}

func TestAllow_ConcurrentSendsShareCooldown(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, 60*time.Second, 5, 20)

	const callers = 16
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make(chan LimitResult, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- limiter.Allow("ops@army.mil", "203.0.113.9")
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	allowed := 0
	for result := range results {
		if result.Allowed {
			allowed++
			continue
		}
		if result.Reason != "cooldown" {
			t.Fatalf("blocked Reason = %q, want cooldown", result.Reason)
		}
	}
	if allowed != 1 {
		t.Fatalf("allowed %d concurrent sends to one recipient, want 1", allowed)
	}
}

func TestAllow_SecondCallerSeesFirstSend(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, 60*time.Second, 5, 20)

	first := limiter.Allow("ops@army.mil", "203.0.113.9")
	second := limiter.Allow("OPS@army.mil", "203.0.113.10")
	if !first.Allowed {
		t.Fatalf("first send blocked: %s", first.Reason)
	}
	if second.Allowed {
		t.Fatalf("second send to the same recipient was allowed")
	}
}

func TestAllow_HourlyLimit(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, time.Millisecond, 3, 20)

	recipient := "hourly@nist.gov"
	ip := "192.168.1.2"

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		if result := limiter.Allow(recipient, ip); !result.Allowed {
			t.Fatalf("send %d blocked: %s", i+1, result.Reason)
		}
	}

	clock.Advance(time.Second)
	result := limiter.Allow(recipient, ip)
	if result.Allowed {
		t.Fatalf("4th send within the hour was allowed")
	}
	if result.Reason != "hourly_limit" {
		t.Fatalf("Reason = %q, want hourly_limit", result.Reason)
	}

	clock.Advance(time.Hour)
	if result := limiter.Allow(recipient, ip); !result.Allowed {
		t.Fatalf("send after the window blocked: %s", result.Reason)
	}
}

func TestAllow_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, time.Millisecond, 100, 2)

	ip := "192.168.1.3"
	for _, recipient := range []string{"a@example.com", "b@example.com"} {
		clock.Advance(time.Second)
		if result := limiter.Allow(recipient, ip); !result.Allowed {
			t.Fatalf("send to %s blocked: %s", recipient, result.Reason)
		}
	}

	clock.Advance(time.Second)
	result := limiter.Allow("c@example.com", ip)
	if result.Allowed {
		t.Fatalf("3rd send from the same IP was allowed")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Fatalf("Reason = %q, want ip_hourly_limit", result.Reason)
	}
}

func TestAllow_RecipientNormalization(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, 60*time.Second, 5, 20)

	ip := "192.168.1.1"
	if result := limiter.Allow("user@example.com", ip); !result.Allowed {
		t.Fatalf("first send blocked: %s", result.Reason)
	}

	for _, recipient := range []string{"USER@EXAMPLE.COM", " User@Example.Com "} {
		if result := limiter.Allow(recipient, ip); result.Allowed {
			t.Fatalf("%q should share the cooldown of user@example.com", recipient)
		}
	}
}

func TestPrune(t *testing.T) {
	clock := newMockClock()
	limiter := newTestLimiter(clock, time.Second, 5, 20)

	limiter.Allow("old@example.com", "203.0.113.1")
	clock.Advance(50 * time.Minute)
	limiter.Allow("new@example.com", "203.0.113.2")

	if got := limiter.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}

	clock.Advance(15 * time.Minute)
	if removed := limiter.Prune(); removed != 2 {
		t.Fatalf("Prune() removed %d, want 2", removed)
	}
	if got := limiter.Len(); got != 2 {
		t.Fatalf("Len() after prune = %d, want 2", got)
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
			r, _ := http.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			got := GetClientIP(r, tt.trustProxy)
			if got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"JOHN.DOE@EXAMPLE.COM", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"a@b@nist.gov", "a@***@nist.gov"},
		{"not-an-email", "***"},
	}

	for _, tt := range tests {
		if got := SanitizeIdentifier(tt.input); got != tt.expected {
			t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
