package rest

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle buckets are dropped after this long so the map cannot grow with
// one entry per address that ever scanned a card.
const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// parseCIDRs turns the configured trusted-proxy list into net.IPNet values.
// A bare IP is widened to a /32 (or /128) network; anything unparseable is
// logged and skipped rather than failing startup.
func parseCIDRs(cidrs []string, logger *slog.Logger) []*net.IPNet {
	if logger == nil {
		logger = slog.Default()
	}
	var nets []*net.IPNet
	for _, c := range cidrs {
		_, ipNet, err := net.ParseCIDR(c)
		if err != nil {
			ip := net.ParseIP(c)
			if ip == nil {
				logger.Warn("skipping invalid trusted proxy CIDR", "cidr", c, "error", err)
				continue
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			ipNet = &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
		}
		nets = append(nets, ipNet)
	}
	return nets
}

func fromTrustedProxy(remoteIP string, trusted []*net.IPNet) bool {
	parsed := net.ParseIP(remoteIP)
	if parsed == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// clientIP picks the address a request is throttled under. X-Real-IP and
// X-Forwarded-For are forgeable by anyone who can reach the listener, so
// they count only when the direct peer is a trusted proxy; otherwise the
// socket address is the truth.
func clientIP(r *http.Request, trustedProxies []*net.IPNet) string {
	remoteIP, _, _ := net.SplitHostPort(r.RemoteAddr)
	if remoteIP == "" {
		remoteIP = r.RemoteAddr
	}

	if len(trustedProxies) > 0 && fromTrustedProxy(remoteIP, trustedProxies) {
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
	}

	return remoteIP
}

// rateLimitByIP returns middleware holding a token bucket per client
// address, refilled at rps with the given burst. Counters live in process
// memory, so each instance of the server enforces its own copy of the
// limit.
func rateLimitByIP(rps float64, burst int, trustedProxies []*net.IPNet) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	// The middleware is built once at router setup and lives as long as
	// the process, so the sweep goroutine needs no stop signal.
	go func() {
		for range time.Tick(limiterSweepInterval) {
			mu.Lock()
			for ip, v := range visitors {
				if time.Since(v.seen) > limiterIdleTTL {
					delete(visitors, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustedProxies)

			mu.Lock()
			v, ok := visitors[ip]
			if !ok {
				v = &visitor{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
				visitors[ip] = v
			}
			v.seen = time.Now()
			mu.Unlock()

			if !v.bucket.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
