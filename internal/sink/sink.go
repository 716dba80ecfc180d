package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// Sink records a placed order somewhere the shop owner can see it. Submit is
// attempted once; retrying is the caller's decision.
type Sink interface {
	Name() string
	Submit(ctx context.Context, p order.Payload) error
}

// Fanout submits to every sink, even after one fails, and joins the errors.
type Fanout []Sink

func (f Fanout) Name() string {
	names := make([]string, 0, len(f))
	for _, s := range f {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

func (f Fanout) Submit(ctx context.Context, p order.Payload) error {
	var errs []error
	for _, s := range f {
		if err := s.Submit(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Combine returns the single sink as is, or a Fanout for several.
func Combine(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return Fanout(sinks)
}
