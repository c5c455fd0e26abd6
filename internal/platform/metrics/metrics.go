package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts HTTP traffic for the admin stats endpoint.
type Collector struct {
	startedAt       time.Time
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
}

type Snapshot struct {
	StartedAt       time.Time `json:"startedAt"`
	UptimeSeconds   int64     `json:"uptimeSeconds"`
	RequestsTotal   uint64    `json:"requestsTotal"`
	ClientErrors    uint64    `json:"clientErrorsTotal"`
	ServerErrors    uint64    `json:"serverErrorsTotal"`
	RateLimited     uint64    `json:"rateLimitedTotal"`
	AvgDurationMs   float64   `json:"avgDurationMs"`
	TotalDurationMs uint64    `json:"totalDurationMs"`
}

func New() *Collector {
	return &Collector{startedAt: time.Now().UTC()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status == 429:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() Snapshot {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return Snapshot{
		StartedAt:       c.startedAt,
		UptimeSeconds:   int64(time.Since(c.startedAt).Seconds()),
		RequestsTotal:   total,
		ClientErrors:    c.clientErrors.Load(),
		ServerErrors:    c.serverErrors.Load(),
		RateLimited:     c.rateLimited.Load(),
		AvgDurationMs:   avg,
		TotalDurationMs: totalMs,
	}
}
