package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL 超过该时长未访问的 key 会在下次调用时被清理
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Local 进程内令牌桶限流器
// Redis 不可用时作为限流降级实现，计数不跨实例共享
type Local struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

// NewLocal 创建进程内限流器
func NewLocal() *Local {
	return &Local{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// CheckRateLimit 按 limit/window 的速率补充令牌，桶容量为 limit
func (l *Local) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[key]
	if !ok {
		every := rate.Every(window / time.Duration(limit))
		v = &visitor{limiter: rate.NewLimiter(every, limit)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// sweep 清理长时间未访问的 key；调用方需持有锁
func (l *Local) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}
