package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig controls the delay between consecutive requests.
type ThrottleConfig struct {
	// DownloadDelay is the base delay and the lower bound when AutoThrottle
	// is on.
	DownloadDelay time.Duration
	// Randomize multiplies each wait by a factor in [0.5, 1.5).
	Randomize bool

	AutoThrottle bool
	StartDelay   time.Duration
	MaxDelay     time.Duration
	// TargetConcurrency is the average number of requests that should be in
	// flight against the site.
	TargetConcurrency float64
}

// Throttle spaces requests by a delay that, with AutoThrottle enabled, follows
// the observed response latency: target = latency / TargetConcurrency, and
// the new delay is the mean of the old delay and the target, never below the
// target, clamped to [DownloadDelay, MaxDelay]. Error responses may raise the
// delay but never lower it.
type Throttle struct {
	cfg ThrottleConfig

	mu    sync.Mutex
	delay time.Duration
	last  time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	rnd   func() float64
}

func NewThrottle(cfg ThrottleConfig) *Throttle {
	if cfg.TargetConcurrency <= 0 {
		cfg.TargetConcurrency = 1
	}
	delay := cfg.DownloadDelay
	if cfg.AutoThrottle && cfg.StartDelay > delay {
		delay = cfg.StartDelay
	}
	if cfg.AutoThrottle && cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return &Throttle{
		cfg:   cfg,
		delay: delay,
		now:   time.Now,
		sleep: sleepCtx,
		rnd:   rand.Float64,
	}
}

// Wait blocks until the current delay has passed since the previous request
// was released.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	delay := t.delay
	if t.cfg.Randomize {
		delay = time.Duration(float64(delay) * (0.5 + t.rnd()))
	}
	var wait time.Duration
	now := t.now()
	if !t.last.IsZero() {
		wait = t.last.Add(delay).Sub(now)
	}
	if wait < 0 {
		wait = 0
	}
	// reserve the slot before sleeping so concurrent callers queue behind it
	t.last = now.Add(wait)
	t.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}
	return t.sleep(ctx, wait)
}

// Limit reports the current delay as a rate.
func (t *Throttle) Limit() rate.Limit {
	d := t.Delay()
	if d <= 0 {
		return rate.Inf
	}
	return rate.Every(d)
}

// Delay returns the current delay without jitter.
func (t *Throttle) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// Observe adjusts the delay from one response. It is a no-op unless
// AutoThrottle is enabled.
func (t *Throttle) Observe(latency time.Duration, status int) {
	if !t.cfg.AutoThrottle {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	target := time.Duration(float64(latency) / t.cfg.TargetConcurrency)
	next := (t.delay + target) / 2
	if next < target {
		next = target
	}
	if status != 200 && next < t.delay {
		return
	}
	if next < t.cfg.DownloadDelay {
		next = t.cfg.DownloadDelay
	}
	if t.cfg.MaxDelay > 0 && next > t.cfg.MaxDelay {
		next = t.cfg.MaxDelay
	}
	t.delay = next
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
