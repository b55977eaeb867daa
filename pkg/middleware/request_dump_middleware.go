package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/NouhaAwachri/Zenfit-Trainer-App/utilities"
)

func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tParams: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			c.Request.Header,
			c.Params,
			string(bodyBytes),
		)

		c.Next()
	}
}

// RateLimitMiddleware applies a per-client token bucket.
func RateLimitMiddleware(perSecond int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	return func(c *gin.Context) {
		mu.Lock()
		lim, ok := limiters[c.ClientIP()]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(perSecond), perSecond*2)
			limiters[c.ClientIP()] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
