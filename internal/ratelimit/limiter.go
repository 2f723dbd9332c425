// Package ratelimit caps how many scheduling requests one actor or client
// address may submit per hour, so a single caller cannot hold large parts
// of the calendar with speculative proposals.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/clock"
)

const window = time.Hour

// Config holds rate limit configuration.
type Config struct {
	MaxPerHour   int // Max submissions per actor per hour (default: 30)
	MaxIPPerHour int // Max submissions per client IP per hour (default: 120)

	// Clock for testing (nil uses real time)
	Clock clock.Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPerHour:   30,
		MaxIPPerHour: 120,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry counts submissions in a fixed window starting at firstAt.
type entry struct {
	count   int
	firstAt time.Time
}

type Limiter struct {
	config *Config
	clock  clock.Clock
	mu     sync.Mutex
	// Keyed by hash of actor id or IP
	byActor map[string]*entry
	byIP    map[string]*entry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.MaxPerHour <= 0 {
		cfg.MaxPerHour = defaults.MaxPerHour
	}
	if cfg.MaxIPPerHour <= 0 {
		cfg.MaxIPPerHour = defaults.MaxIPPerHour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock.OrSystem(cfg.Clock),
		byActor:       make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow checks both limits and, when the submission is allowed, records it.
// A rejected submission is not counted.
func (l *Limiter) Allow(actorID, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	actorKey := l.hashKey("actor:", normalizeIdentifier(actorID))
	ipKey := l.hashKey("ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if res := check(l.byActor[actorKey], l.config.MaxPerHour, now, "actor_hourly_limit"); !res.Allowed {
		return res
	}
	if ip != "" {
		if res := check(l.byIP[ipKey], l.config.MaxIPPerHour, now, "ip_hourly_limit"); !res.Allowed {
			return res
		}
		record(l.byIP, ipKey, now)
	}
	record(l.byActor, actorKey, now)
	return LimitResult{Allowed: true}
}

func check(e *entry, max int, now time.Time, reason string) LimitResult {
	if e == nil || now.Sub(e.firstAt) >= window || e.count < max {
		return LimitResult{Allowed: true}
	}
	return LimitResult{
		Allowed:    false,
		RetryAfter: window - now.Sub(e.firstAt),
		Reason:     reason,
	}
}

func record(m map[string]*entry, key string, now time.Time) {
	e := m[key]
	if e == nil || now.Sub(e.firstAt) >= window {
		m[key] = &entry{count: 1, firstAt: now}
		return
	}
	e.count++
}

func (l *Limiter) hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

// normalizeIdentifier lowercases the identifier to prevent case-based bypass.
func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, m := range []map[string]*entry{l.byActor, l.byIP} {
		for k, e := range m {
			if now.Sub(e.firstAt) >= window {
				delete(m, k)
			}
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byActor) + len(l.byIP)
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost IP from X-Forwarded-For (added by your proxy).
// When trustProxy is false, ignores X-Forwarded-For entirely (prevents spoofing).
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

func LogRateLimitExceeded(ctx context.Context, actorID, ip string, res LimitResult) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Str("actor_id", actorID).
		Str("ip", ip).
		Str("reason", res.Reason).
		Dur("retry_after", res.RetryAfter).
		Msg("Request submission rate limit exceeded")
}
