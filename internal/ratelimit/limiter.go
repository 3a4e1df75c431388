// Package ratelimit limits how often themed test emails can be sent.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/violetshores/vac-themes/internal/metrics"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	SendCooldown     time.Duration // Minimum time between sends to one recipient (default: 60s)
	SendMaxPerHour   int           // Max sends per recipient per hour (default: 5)
	SendMaxIPPerHour int           // Max sends per client IP per hour (default: 20)

	// Clock for testing (nil uses real time)
	Clock Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		SendCooldown:     60 * time.Second,
		SendMaxPerHour:   5,
		SendMaxIPPerHour: 20,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count   int
	firstAt time.Time // First send in window
	lastAt  time.Time // Most recent send (for cooldown)
}

// Limiter tracks sends per recipient and per client IP.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.RWMutex
	// Keyed by hash of recipient or IP
	byRecipient map[string]*entry
	byIP        map[string]*entry
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Limiter{
		config:      cfg,
		clock:       clock,
		byRecipient: make(map[string]*entry),
		byIP:        make(map[string]*entry),
	}
}

// Allow reports whether a send to recipient from ip is allowed and, when it
// is, records the send before the lock is released. Concurrent callers for
// the same recipient therefore see each other's sends.
func (l *Limiter) Allow(recipient, ip string) LimitResult {
	now := l.clock.Now()
	idKey := l.hashKey("send:id:", normalizeIdentifier(recipient))
	ipKey := l.hashKey("send:ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if result := l.check(now, idKey, ipKey); !result.Allowed {
		return result
	}
	record(l.byRecipient, idKey, now)
	record(l.byIP, ipKey, now)
	return LimitResult{Allowed: true}
}

// check must be called with l.mu held.
func (l *Limiter) check(now time.Time, idKey, ipKey string) LimitResult {
	if e := l.byRecipient[idKey]; e != nil {
		elapsed := now.Sub(e.lastAt)
		if elapsed < l.config.SendCooldown {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.SendCooldown - elapsed,
				Reason:     "cooldown",
			}
		}

		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.SendMaxPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "hourly_limit",
			}
		}
	}

	if e := l.byIP[ipKey]; e != nil {
		if now.Sub(e.firstAt) < time.Hour && e.count >= l.config.SendMaxIPPerHour {
			return LimitResult{
				Allowed:    false,
				RetryAfter: time.Hour - now.Sub(e.firstAt),
				Reason:     "ip_hourly_limit",
			}
		}
	}

	return LimitResult{Allowed: true}
}

func record(entries map[string]*entry, key string, now time.Time) {
	e := entries[key]
	if e == nil || now.Sub(e.firstAt) >= time.Hour {
		entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

// Prune drops entries idle for more than an hour and returns how many
// were removed.
func (l *Limiter) Prune() int {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for _, entries := range []map[string]*entry{l.byRecipient, l.byIP} {
		for k, e := range entries {
			if now.Sub(e.lastAt) > time.Hour {
				delete(entries, k)
				removed++
			}
		}
	}
	return removed
}

// Len returns the number of tracked recipients and IPs.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byRecipient) + len(l.byIP)
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

// normalizeIdentifier lowercases the identifier to prevent case-based bypass.
func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost public IP from X-Forwarded-For.
// When trustProxy is false, ignores X-Forwarded-For entirely.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			// All IPs are private, use the last one
			return strings.TrimSpace(parts[len(parts)-1])
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if parsed := net.ParseIP(r.RemoteAddr); parsed != nil {
			return r.RemoteAddr
		}
		if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
			candidate := r.RemoteAddr[:idx]
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks []*net.IPNet

func init() {
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}
	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		privateNetworks = append(privateNetworks, network)
	}
}

// isPrivateIP handles both IPv4 and IPv4-mapped IPv6 addresses.
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// SanitizeIdentifier masks an email address for logging.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if at := strings.LastIndex(identifier, "@"); at != -1 {
		local, domain := identifier[:at], identifier[at+1:]
		if len(local) > 2 {
			return local[:2] + "***@" + domain
		}
		return "***@" + domain
	}
	return "***"
}

// LogRateLimitExceeded logs a rate limit event with a sanitized recipient
// and counts it.
func LogRateLimitExceeded(recipient, ip, reason string) {
	metrics.RateLimitedTotal.WithLabelValues(reason).Inc()
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("recipient", SanitizeIdentifier(recipient)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Test email rate limit exceeded")
}
