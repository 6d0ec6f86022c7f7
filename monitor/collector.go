// Package monitor collects in-process counters for ingest, search, and tool
// activity. One collector lives for the process lifetime and backs the
// metrics summary endpoint.
package monitor

import (
	"sync"
	"time"
)

type Collector struct {
	mu        sync.Mutex
	start     time.Time
	ingests   int64
	searches  int64
	errors    int64
	toolCalls map[string]int64
	latency   time.Duration
	samples   int64
}

// Summary is a point-in-time snapshot of the collector.
type Summary struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	Ingests       int64            `json:"ingests"`
	Searches      int64            `json:"searches"`
	ToolCalls     map[string]int64 `json:"tool_calls"`
	Errors        int64            `json:"errors"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
}

func NewCollector() *Collector {
	return &Collector{
		start:     time.Now(),
		toolCalls: make(map[string]int64),
	}
}

func (c *Collector) RecordIngest(d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingests++
	c.observe(d, err)
}

func (c *Collector) RecordSearch(d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches++
	c.observe(d, err)
}

func (c *Collector) RecordToolCall(name string, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolCalls[name]++
	c.observe(d, err)
}

// observe assumes c.mu is held.
func (c *Collector) observe(d time.Duration, err error) {
	c.latency += d
	c.samples++
	if err != nil {
		c.errors++
	}
}

func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	toolCalls := make(map[string]int64, len(c.toolCalls))
	for k, v := range c.toolCalls {
		toolCalls[k] = v
	}

	var avgMs float64
	if c.samples > 0 {
		avgMs = float64(c.latency.Milliseconds()) / float64(c.samples)
	}

	return Summary{
		UptimeSeconds: int64(time.Since(c.start).Seconds()),
		Ingests:       c.ingests,
		Searches:      c.searches,
		ToolCalls:     toolCalls,
		Errors:        c.errors,
		AvgLatencyMs:  avgMs,
	}
}
