package sink

import (
	"context"
	"log"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const DefaultSimulatedDelay = 1500 * time.Millisecond

// Simulated stands in for an unconfigured webhook: it logs, waits and succeeds.
type Simulated struct {
	Delay  time.Duration
	Logger *log.Logger
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) Submit(ctx context.Context, p order.Payload) error {
	if s.Logger != nil {
		s.Logger.Printf("WARN: record sink not configured, simulating success for %s (%s)", p.CustomerName, p.Items)
	}

	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
