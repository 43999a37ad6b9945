package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// authAttemptTracker rate-limits credential endpoints with one token bucket
// per client IP: a full burst up front, refilled over the window. State is
// in-process only; a multi-instance deployment would need a shared limiter.
type authAttemptTracker struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newAuthAttemptTracker(limit int, window time.Duration) *authAttemptTracker {
	t := &authAttemptTracker{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		window:   window,
	}
	go t.startCleanup()
	return t
}

func (t *authAttemptTracker) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		cutoff := time.Now().Add(-t.window)
		for ip, v := range t.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(t.visitors, ip)
			}
		}
		t.mu.Unlock()
	}
}

// allow takes one token from the IP's bucket and reports whether one was
// available.
func (t *authAttemptTracker) allow(ip string) bool {
	t.mu.Lock()
	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	t.mu.Unlock()

	return v.limiter.Allow()
}

type RequestMiddleware struct {
	logger  *zap.Logger
	tracker *authAttemptTracker
}

func NewRequestMiddleware(logger *zap.Logger) *RequestMiddleware {
	return &RequestMiddleware{
		logger:  logger,
		tracker: newAuthAttemptTracker(20, 15*time.Minute),
	}
}

// ProcessRequest tags every request with an id and logs start/completion.
func (rm *RequestMiddleware) ProcessRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		rm.logger.Info("Request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// ThrottleAuth limits credential-guessing on the auth endpoints.
func (rm *RequestMiddleware) ThrottleAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rm.tracker.allow(c.ClientIP()) {
			rm.logger.Warn("Auth attempt rate limited",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, retry later"})
			return
		}
		c.Next()
	}
}

// RecoverPanic converts a handler panic into a generic 500 without leaking
// the stack to the client.
func (rm *RequestMiddleware) RecoverPanic() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				rm.logger.Error("Panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.Any("error", err),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error"})
			}
		}()
		c.Next()
	}
}
