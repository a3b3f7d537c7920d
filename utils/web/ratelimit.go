package web

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// RateLimiters hands out one shared limiter per name.
type RateLimiters struct {
	limiters map[string]ratelimit.Limiter
	mtx      sync.Mutex
}

func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		limiters: make(map[string]ratelimit.Limiter),
	}
}

// Get returns the limiter registered under name, creating it with newRateLimit requests per second.
func (r *RateLimiters) Get(name string, newRateLimit int) ratelimit.Limiter {
	// acquire lock
	r.mtx.Lock()
	defer r.mtx.Unlock()

	// retrieve or create new ratelimit
	key := strings.ToLower(name)
	rl, ok := r.limiters[key]
	if !ok {
		rl = ratelimit.New(newRateLimit)
		r.limiters[key] = rl

		log.WithFields(logrus.Fields{
			"name":  name,
			"limit": newRateLimit,
		}).Trace("Created new ratelimit")
	}

	return rl
}
