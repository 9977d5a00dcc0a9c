package resilience

import (
	"testing"
	"time"
)

func TestDefaultConfigBoundsRetryBudget(t *testing.T) {
	cfg := DefaultConfig()

	var total time.Duration
	backoff := cfg.RetryInitialBackoff
	for attempt := 1; attempt < cfg.RetryMaxAttempts; attempt++ {
		if backoff > cfg.RetryMaxBackoff {
			backoff = cfg.RetryMaxBackoff
		}
		total += backoff
		backoff = time.Duration(float64(backoff) * cfg.RetryMultiplier)
	}

	// The full retry budget must leave room inside the 30s submission
	// deadline for the oracle calls themselves.
	if total >= 10*time.Second {
		t.Fatalf("worst-case backoff %v leaves no room for the oracle calls", total)
	}
	if !cfg.BreakerEnabled {
		t.Fatal("breaker must be on by default")
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	got := Config{}.normalize()

	if got.RetryMaxAttempts <= 0 || got.RetryInitialBackoff <= 0 || got.RetryMaxBackoff <= 0 {
		t.Fatalf("zero config must not produce a hot loop: %+v", got)
	}
	if got.RetryMaxBackoff < got.RetryInitialBackoff {
		t.Fatalf("backoff ceiling below floor: %+v", got)
	}
	if got.BreakerMinRequests == 0 || got.BreakerHalfOpenMaxCalls == 0 {
		t.Fatalf("breaker thresholds must be filled: %+v", got)
	}
}

func TestNormalizeRaisesCeilingToFloor(t *testing.T) {
	got := Config{
		RetryInitialBackoff: 2 * time.Second,
		RetryMaxBackoff:     time.Second,
	}.normalize()

	if got.RetryMaxBackoff != 2*time.Second {
		t.Fatalf("expected ceiling raised to floor, got %v", got.RetryMaxBackoff)
	}
}
