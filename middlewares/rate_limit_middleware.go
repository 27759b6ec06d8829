package middlewares

import (
	"gin-marketplace/constants"
	"gin-marketplace/logger"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// minIdleTTL is how long a client's limiter is kept after its last request, unless the
// bucket needs longer to refill.
const minIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors  map[string]*visitor
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(perMinute int, burst int) *RateLimiter {
	interval := time.Minute / time.Duration(perMinute)

	// 期限切れで消しても制限が緩まないよう、バケットが満杯に戻るまでは保持する
	idleTTL := time.Duration(burst) * interval
	if idleTTL < minIdleTTL {
		idleTTL = minIdleTTL
	}

	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		rate:      rate.Every(interval),
		burst:     burst,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops limiters idle for idleTTL. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.idleTTL {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// Len reports how many clients are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// RateLimitMiddleware limits requests per client IP. A non-positive rate disables it.
func RateLimitMiddleware(perMinute int, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	rl := NewRateLimiter(perMinute, burst)

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		if !rl.GetLimiter(ip).Allow() {
			logger.Warn(ctx, "Rate limit exceeded", zap.String("ip", ip), zap.String("path", ctx.Request.URL.Path))
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": constants.ErrRateLimited})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
