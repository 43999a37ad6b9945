package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Collector is a small in-process metrics store exposed as JSON on /metrics.
// Counters track totals per label set, latencies keep a sliding window of
// the last 100 observations per name.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]map[string]int64
	latencies map[string][]time.Duration
	sizes     map[string][]float64
}

const windowSize = 100

func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]map[string]int64),
		latencies: make(map[string][]time.Duration),
		sizes:     make(map[string][]float64),
	}
}

func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return "default"
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+labels[k])
	}
	return strings.Join(parts, ",")
}

func (c *Collector) IncrementCounter(name string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if _, ok := c.counters[name]; !ok {
		c.counters[name] = make(map[string]int64)
	}
	c.counters[name][key]++
}

func (c *Collector) ObserveLatency(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies[name] = append(c.latencies[name], d)
	if len(c.latencies[name]) > windowSize {
		c.latencies[name] = c.latencies[name][len(c.latencies[name])-windowSize:]
	}
}

func (c *Collector) ObserveSize(name string, size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sizes[name] = append(c.sizes[name], size)
	if len(c.sizes[name]) > windowSize {
		c.sizes[name] = c.sizes[name][len(c.sizes[name])-windowSize:]
	}
}

func (c *Collector) Counters() map[string]map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]int64, len(c.counters))
	for name, byLabel := range c.counters {
		out[name] = make(map[string]int64, len(byLabel))
		for label, v := range byLabel {
			out[name][label] = v
		}
	}
	return out
}

func (c *Collector) Latencies() map[string]map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]float64)
	for name, durations := range c.latencies {
		if len(durations) == 0 {
			continue
		}
		var sum time.Duration
		max := durations[0]
		for _, d := range durations {
			sum += d
			if d > max {
				max = d
			}
		}
		out[name] = map[string]float64{
			"avg_ms": float64(sum) / float64(len(durations)) / float64(time.Millisecond),
			"max_ms": float64(max) / float64(time.Millisecond),
		}
	}
	return out
}

func (c *Collector) Sizes() map[string]map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]float64)
	for name, values := range c.sizes {
		if len(values) == 0 {
			continue
		}
		var sum, max float64
		for _, v := range values {
			sum += v
			if v > max {
				max = v
			}
		}
		out[name] = map[string]float64{
			"avg_bytes": sum / float64(len(values)),
			"max_bytes": max,
		}
	}
	return out
}
