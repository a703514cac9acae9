package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 2)

	require.True(t, rl.Allow("user-a"))
	require.True(t, rl.Allow("user-a"))
	// Burst exhausted.
	require.False(t, rl.Allow("user-a"))

	// Keys are independent.
	require.True(t, rl.Allow("user-b"))
}

func TestRateLimiterReusesLimiter(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)

	require.True(t, rl.Allow("key"))
	require.False(t, rl.Allow("key"))
	require.Same(t, rl.getLimiter("key"), rl.getLimiter("key"))
}
