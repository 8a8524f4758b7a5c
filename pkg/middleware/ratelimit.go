package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter mantém um limitador por IP
type RateLimiter struct {
	visitors       map[string]*visitor
	mu             sync.Mutex
	limit          rate.Limit
	burst          int
	trustedProxies []*net.IPNet
	idleTTL        time.Duration
	lastSweep      time.Time
	now            func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithTrustedProxies faz o X-Forwarded-For ser considerado apenas quando a conexão
// vem de um desses endereços (IP ou CIDR)
func WithTrustedProxies(proxies ...string) RateLimiterOption {
	return func(l *RateLimiter) {
		for _, proxy := range proxies {
			proxy = strings.TrimSpace(proxy)
			if proxy == "" {
				continue
			}
			if !strings.Contains(proxy, "/") {
				if ip := net.ParseIP(proxy); ip != nil && ip.To4() != nil {
					proxy += "/32"
				} else {
					proxy += "/128"
				}
			}
			_, network, err := net.ParseCIDR(proxy)
			if err != nil {
				log.ForContext(context.Background()).Warnf("Proxy confiável inválido ignorado: %s", proxy)
				continue
			}
			l.trustedProxies = append(l.trustedProxies, network)
		}
	}
}

// WithIdleTTL define após quanto tempo sem requisições o limitador de um IP é descartado
func WithIdleTTL(ttl time.Duration) RateLimiterOption {
	return func(l *RateLimiter) {
		if ttl > 0 {
			l.idleTTL = ttl
		}
	}
}

// NewRateLimiter permite perMinute requisições por minuto por IP, com rajada de burst
func NewRateLimiter(perMinute, burst int, opts ...RateLimiterOption) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}

	l := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		idleTTL:  defaultLimiterIdleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep = l.now()

	return l
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= l.idleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := l.clientIP(r)
			if !l.getLimiter(ip).Allow() {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warnf("Limite de tentativas excedido para %s", ip)
				apiErrors.WriteError(w, apiErrors.ErrTooManyAttempts, "Muitas tentativas, aguarde e tente novamente", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP usa o endereço da conexão. Atrás de um proxy confiável, percorre o
// X-Forwarded-For da direita para a esquerda e devolve o primeiro salto não confiável.
func (l *RateLimiter) clientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remote = host
	}

	if !l.trusted(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.trusted(hop) {
			return hop
		}
	}

	return remote
}

func (l *RateLimiter) trusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range l.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
