package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIncrementCounter(t *testing.T) {
	c := NewCollector()
	c.IncrementCounter("auth.signups", map[string]string{"role": "lawyer"})
	c.IncrementCounter("auth.signups", map[string]string{"role": "lawyer"})
	c.IncrementCounter("auth.signups", map[string]string{"role": "client"})
	c.IncrementCounter("documents.uploaded", nil)

	counters := c.Counters()
	assert.Equal(t, int64(2), counters["auth.signups"]["role:lawyer"])
	assert.Equal(t, int64(1), counters["auth.signups"]["role:client"])
	assert.Equal(t, int64(1), counters["documents.uploaded"]["default"])
}

func TestLabelKeyIsOrderIndependent(t *testing.T) {
	a := labelKey(map[string]string{"a": "1", "b": "2"})
	b := labelKey(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, a, b)
}

func TestObserveLatency(t *testing.T) {
	c := NewCollector()
	c.ObserveLatency("documents.compare", 10*time.Millisecond)
	c.ObserveLatency("documents.compare", 30*time.Millisecond)

	lat := c.Latencies()["documents.compare"]
	assert.InDelta(t, 20.0, lat["avg_ms"], 0.01)
	assert.InDelta(t, 30.0, lat["max_ms"], 0.01)
}

func TestObserveLatencyWindow(t *testing.T) {
	c := NewCollector()
	for i := 0; i < windowSize+50; i++ {
		c.ObserveLatency("x", time.Millisecond)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.latencies["x"], windowSize)
}

func TestObserveSize(t *testing.T) {
	c := NewCollector()
	c.ObserveSize("documents.upload_bytes", 1000)
	c.ObserveSize("documents.upload_bytes", 3000)

	sizes := c.Sizes()["documents.upload_bytes"]
	assert.InDelta(t, 2000.0, sizes["avg_bytes"], 0.01)
	assert.InDelta(t, 3000.0, sizes["max_bytes"], 0.01)
}
