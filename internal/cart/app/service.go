package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/farmlink/marketcart/internal/cart/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

// Service is the cart view-model: one in-memory ordered list of lines backed
// by whichever store matches the session. Every mutation is routed to the
// store first and mirrored in memory only when the store accepted it, so the
// list never diverges from its backing storage.
type Service struct {
	store Store
	log   *slog.Logger

	mu    sync.Mutex
	lines []domain.CartLine
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Load replaces the in-memory list with the store contents.
func (s *Service) Load(ctx context.Context) error {
	lines, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	s.log.Debug("cart loaded", slog.Int("lines", len(lines)))
	return nil
}

// Lines returns a snapshot of the current list.
func (s *Service) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line looks up a single line by id.
func (s *Service) Line(lineID string) (domain.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line instead, preserving the quantity >= 1 invariant.
func (s *Service) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, lineID)
	}

	if _, ok := s.Line(lineID); !ok {
		return fmt.Errorf("update quantity: %w", ErrLineNotFound)
	}

	if err := s.store.SetQuantity(ctx, lineID, quantity); err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Remove deletes a line from the store and the in-memory list.
func (s *Service) Remove(ctx context.Context, lineID string) error {
	if _, ok := s.Line(lineID); !ok {
		return fmt.Errorf("remove line: %w", ErrLineNotFound)
	}

	if err := s.store.Remove(ctx, lineID); err != nil {
		return fmt.Errorf("remove line: %w", err)
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Subtotal recomputes the cart total on every call; it is derived state and
// never cached.
func (s *Service) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, l := range s.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
