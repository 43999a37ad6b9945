package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthAttemptTrackerBurst(t *testing.T) {
	tracker := newAuthAttemptTracker(20, 15*time.Minute)

	for i := 0; i < 20; i++ {
		assert.True(t, tracker.allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, tracker.allow("10.0.0.1"), "attempt 21 should be limited")
}

func TestAuthAttemptTrackerPerIP(t *testing.T) {
	tracker := newAuthAttemptTracker(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		tracker.allow("10.0.0.1")
	}
	assert.False(t, tracker.allow("10.0.0.1"))
	// a different client has its own bucket
	assert.True(t, tracker.allow("10.0.0.2"))
}

func TestAuthAttemptTrackerManyClients(t *testing.T) {
	tracker := newAuthAttemptTracker(1, 15*time.Minute)

	for i := 0; i < 50; i++ {
		ip := fmt.Sprintf("192.168.0.%d", i)
		assert.True(t, tracker.allow(ip))
		assert.False(t, tracker.allow(ip))
	}
}
