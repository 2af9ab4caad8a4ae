package middleware

import (
	"net/http"
	"sync"
	"time"

	"linkboard/backend/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client ip. A bucket holds
// maxRequests tokens and refills completely over duration.
type ipRateLimiter struct {
	mutex       sync.Mutex
	visitors    map[string]*visitor
	maxRequests int
	duration    time.Duration
	lastSweep   time.Time
}

func newIPRateLimiter(maxRequests int, duration time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		visitors:    make(map[string]*visitor),
		maxRequests: maxRequests,
		duration:    duration,
		lastSweep:   time.Now(),
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := time.Now()
	v, ok := l.visitors[ip]
	if !ok {
		every := l.duration / time.Duration(l.maxRequests)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), l.maxRequests)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.cleanup(now)
	return v.limiter.AllowN(now, 1)
}

// cleanup forgets clients idle for longer than a full refill. It sweeps at
// most once per duration.
func (l *ipRateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastSweep) < l.duration {
		return
	}
	l.lastSweep = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.duration {
			delete(l.visitors, ip)
		}
	}
}

func rateLimitFactory(maxRequests int, duration time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 || duration <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPRateLimiter(maxRequests, duration)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			common.AbortWithError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}

func GlobalAPIRateLimit() gin.HandlerFunc {
	return rateLimitFactory(common.GlobalAPIRateLimitNum, common.GlobalAPIRateLimitDuration)
}
