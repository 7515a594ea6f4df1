package latency

import (
	"context"
	"fmt"
	"lockngo/config"
	"time"
)

// Injector delays an operation to imitate a remote call.
type Injector interface {
	Wait(ctx context.Context) error
}

type fixed struct {
	delay time.Duration
}

// New builds an injector from LIFECYCLE_LATENCY_MS; zero disables it.
func New(cfg *config.Config) Injector {
	if cfg.Lifecycle.LatencyMs <= 0 {
		return None()
	}

	return fixed{delay: time.Duration(cfg.Lifecycle.LatencyMs) * time.Millisecond}
}

func Fixed(d time.Duration) Injector {
	return fixed{delay: d}
}

func (f fixed) Wait(ctx context.Context) error {
	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("simulated latency interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

type none struct{}

func None() Injector {
	return none{}
}

func (none) Wait(context.Context) error {
	return nil
}
