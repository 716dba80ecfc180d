package sink

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Submission tracks one hand-off of an order payload to the sink.
type Submission struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Sink       string     `json:"sink"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type SubmitterOptions struct {
	// Timeout bounds a single Submit call. Zero means 30s.
	Timeout time.Duration
	// Retention is how long finished submissions stay queryable. Zero means 1h.
	Retention time.Duration
	Logger    *log.Logger
	// OnFinish is called once per submission after it reaches a terminal status.
	OnFinish func(Submission, time.Duration)
}

// Submitter runs each submission in its own goroutine so checkout never waits
// on the sink longer than it chooses to.
type Submitter struct {
	sink Sink
	opts SubmitterOptions
	now  func() time.Time

	mu   sync.Mutex
	subs map[string]*entry
	wg   sync.WaitGroup
}

type entry struct {
	sub  Submission
	done chan struct{}
}

func NewSubmitter(s Sink, opts SubmitterOptions) *Submitter {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}
	return &Submitter{
		sink: s,
		opts: opts,
		now:  time.Now,
		subs: make(map[string]*entry),
	}
}

// Handle is a future for one submission.
type Handle struct {
	ID string

	s    *Submitter
	done chan struct{}
}

func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the submission finishes or ctx is done, then returns the
// latest known state. A ctx error means the submission is still in flight.
func (h *Handle) Wait(ctx context.Context) (Submission, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		sub, _ := h.s.Get(h.ID)
		return sub, ctx.Err()
	}
	sub, _ := h.s.Get(h.ID)
	return sub, nil
}

// Submit queues p and returns immediately. Cancelling ctx does not cancel the
// submission; its values (correlation id) are kept.
func (s *Submitter) Submit(ctx context.Context, p order.Payload) *Handle {
	e := &entry{
		sub: Submission{
			ID:        uuid.NewString(),
			Status:    StatusQueued,
			Sink:      s.sink.Name(),
			CreatedAt: s.now().UTC(),
		},
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.subs[e.sub.ID] = e
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(context.WithoutCancel(ctx), e, p)

	return &Handle{ID: e.sub.ID, s: s, done: e.done}
}

func (s *Submitter) run(ctx context.Context, e *entry, p order.Payload) {
	defer s.wg.Done()
	defer close(e.done)

	s.setStatus(e, StatusRunning, nil)
	start := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	err := s.sink.Submit(ctx, p)
	cancel()

	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		if s.opts.Logger != nil {
			s.opts.Logger.Printf("submission %s to %s failed: %v", e.sub.ID, e.sub.Sink, err)
		}
	}
	sub := s.setStatus(e, status, err)

	if s.opts.OnFinish != nil {
		s.opts.OnFinish(sub, s.now().Sub(start))
	}
}

func (s *Submitter) setStatus(e *entry, status Status, err error) Submission {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.sub.Status = status
	if err != nil {
		e.sub.Error = err.Error()
	}
	if status.IsTerminal() {
		t := s.now().UTC()
		e.sub.FinishedAt = &t
	}
	return e.sub
}

func (s *Submitter) Get(id string) (Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.subs[id]
	if !ok {
		return Submission{}, false
	}
	return e.sub, true
}

func (s *Submitter) pruneLocked() {
	cutoff := s.now().Add(-s.opts.Retention)
	for id, e := range s.subs {
		if e.sub.FinishedAt != nil && e.sub.FinishedAt.Before(cutoff) {
			delete(s.subs, id)
		}
	}
}

// Shutdown waits for in-flight submissions or until ctx is done.
func (s *Submitter) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
