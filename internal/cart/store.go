package cart

import (
	"math"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// Store owns one cart. It is a plain value holder with no locking; callers
// serialize access (see session.Session).
//
// Invariants: at most one line per product id, every quantity >= 1, lines
// stay in first-add order.
type Store struct {
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) index(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem bumps the existing line by one or appends a new line.
func (s *Store) AddItem(p catalog.Product) {
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity = addSaturating(s.lines[i].Quantity, 1)
		return
	}
	s.lines = append(s.lines, Line{Product: p, Quantity: 1})
}

// UpdateQuantity applies delta to an existing line, clamping at zero and
// saturating at math.MaxInt; a line that reaches zero is removed. Unknown ids
// are ignored.
func (s *Store) UpdateQuantity(productID string, delta int) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	q := addSaturating(s.lines[i].Quantity, delta)
	if q <= 0 {
		s.removeAt(i)
		return
	}
	s.lines[i].Quantity = q
}

// addSaturating adds a non-negative quantity q and delta without wrapping.
// Only a positive delta can overflow since q is never negative.
func addSaturating(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

func (s *Store) RemoveItem(productID string) {
	if i := s.index(productID); i >= 0 {
		s.removeAt(i)
	}
}

func (s *Store) removeAt(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

func (s *Store) Clear() {
	s.lines = nil
}

func (s *Store) TotalAmount() float64 {
	total := 0.0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

func (s *Store) TotalCount() int {
	n := 0
	for _, l := range s.lines {
		n = addSaturating(n, l.Quantity)
	}
	return n
}

func (s *Store) IsEmpty() bool { return len(s.lines) == 0 }

// Lines returns a copy of the current lines.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Items:       s.Lines(),
		TotalAmount: s.TotalAmount(),
		TotalCount:  s.TotalCount(),
	}
}
