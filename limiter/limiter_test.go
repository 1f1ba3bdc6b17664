package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPer(t *testing.T) {
	assert.Equal(t, rate.Every(500*time.Millisecond), Per(2, time.Second))
}

func TestMultiLimiter_SortsBySlowest(t *testing.T) {
	fast := rate.NewLimiter(rate.Every(time.Millisecond), 1)
	slow := rate.NewLimiter(Per(1, time.Minute), 1)

	m := NewMultiLimiter(fast, slow)
	assert.Equal(t, slow.Limit(), m.Limit())

	// both limiters have a token available, so the first wait is immediate
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx))
}

func TestMultiLimiter_Empty(t *testing.T) {
	m := NewMultiLimiter()
	assert.Equal(t, rate.Inf, m.Limit())
	assert.NoError(t, m.Wait(context.Background()))
}

func TestMultiLimiter_ObserveForwards(t *testing.T) {
	th := NewThrottle(ThrottleConfig{
		DownloadDelay: time.Second,
		AutoThrottle:  true,
		MaxDelay:      10 * time.Second,
	})
	m := NewMultiLimiter(rate.NewLimiter(rate.Inf, 1), th)

	m.Observe(4*time.Second, 200)
	assert.Equal(t, 4*time.Second, th.Delay())
}
