package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/metrics"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

// requestID devuelve el id asignado por el middleware requestid.
func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals("requestid").(string)
	return s
}

// RequestLogger registra método, ruta, status, latencia e id de cada solicitud.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler todavía no escribió la respuesta
			status, _, _ = statusFor(err)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", requestID(c)).
			Msg("request")
		return err
	}
}

// Metrics registra cada solicitud con el patrón de ruta como etiqueta.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		done := m.InFlight()
		defer done()

		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = statusFor(err)
		}
		m.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

// ipLimiter token bucket por IP para los endpoints públicos de alta y login.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.limiters[ip]
	if !ok {
		// limpieza perezosa de IPs inactivas
		if len(l.limiters) >= 10000 {
			for k, old := range l.limiters {
				if now.Sub(old.seen) > l.ttl {
					delete(l.limiters, k)
				}
			}
		}
		v = &visitor{lim: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

// RateLimit limita solicitudes por IP; excedido responde 429 RATE_LIMITED.
func RateLimit(perMinute, burst int) fiber.Handler {
	l := newIPLimiter(perMinute, burst)
	return func(c *fiber.Ctx) error {
		if !l.allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fiber.NewError(fiber.StatusTooManyRequests, "demasiadas solicitudes, intente más tarde")
		}
		return c.Next()
	}
}
