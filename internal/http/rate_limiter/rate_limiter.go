package rate_limiter

import (
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client. Buckets idle for longer than the
// configured TTL are dropped by a cron job.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter

	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	cron   *cron.Cron
	logger *zap.Logger
}

func New(rps float64, burst int, ttl time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{
		visitors: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		logger:   log.Named("rate_limiter"),
	}
}

// Visitor returns the bucket of client, creating it on first sight.
func (l *Limiter) Visitor(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[client]
	if !exists {
		limiter := rate.NewLimiter(l.rps, l.burst)
		l.visitors[client] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

func (l *Limiter) Allow(client string) bool {
	return l.Visitor(client).AllowN(l.now(), 1)
}

// Cleanup drops visitors not seen within the TTL and returns how many were removed.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for client, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, client)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}

// Start schedules Cleanup on spec, e.g. "@every 1m".
func (l *Limiter) Start(spec string) error {
	c := cron.New()
	err := c.AddFunc(spec, func() {
		if n := l.Cleanup(); n > 0 {
			l.logger.Debug("stale visitors removed", zap.Int("count", n))
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	l.cron = c
	return nil
}

func (l *Limiter) Stop() {
	if l.cron != nil {
		l.cron.Stop()
	}
}
