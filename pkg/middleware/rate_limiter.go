package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter throttles requests per client IP. The rate uses limiter's
// formatted notation, e.g. "100-M" for 100 requests per minute. An invalid
// or empty value falls back to 100 per minute.
func RateLimiter(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		rate = limiter.Rate{Period: time.Minute, Limit: 100}
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate))
}
