package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/farmlink/marketcart/internal/request/domain"
	"github.com/farmlink/marketcart/internal/session"
)

var (
	ErrNotFound      = errors.New("purchase request not found")
	ErrNotEditable   = errors.New("only pending requests can be edited")
	ErrNotCancelable = errors.New("only pending requests can be cancelled")
)

// List is the buyer's view over their own purchase requests: load, bounded
// edits while pending, and cancellation.
type List struct {
	api  API
	sess session.Session
	log  *slog.Logger

	mu       sync.Mutex
	requests []domain.PurchaseRequest
}

func NewList(api API, sess session.Session, log *slog.Logger) *List {
	if log == nil {
		log = slog.Default()
	}
	return &List{api: api, sess: sess, log: log}
}

// Load fetches the caller's requests. Without a valid session nothing is
// fetched or rendered.
func (l *List) Load(ctx context.Context) error {
	if !l.sess.Valid() {
		return ErrAuthRequired
	}

	requests, err := l.api.ListMine(ctx)
	if err != nil {
		return fmt.Errorf("load purchase requests: %w", err)
	}

	l.mu.Lock()
	l.requests = requests
	l.mu.Unlock()
	return nil
}

// Requests returns a snapshot of the loaded list.
func (l *List) Requests() []domain.PurchaseRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.PurchaseRequest, len(l.requests))
	copy(out, l.requests)
	return out
}

// Get looks up one loaded request by id.
func (l *List) Get(id string) (domain.PurchaseRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.requests {
		if r.ID == id {
			return r, true
		}
	}
	return domain.PurchaseRequest{}, false
}

// Save patches an edited request. The edit affordance only exists while the
// locally known status is pending; a request the seller has since answered
// is rejected by the backend and that rejection is surfaced, not swallowed.
// On success the full list is reloaded rather than patched in place.
func (l *List) Save(ctx context.Context, id string, edits UpdateRequest) error {
	current, ok := l.Get(id)
	if !ok {
		return ErrNotFound
	}
	if !current.Status.Editable() {
		return ErrNotEditable
	}

	if _, err := l.api.Update(ctx, id, edits); err != nil {
		return fmt.Errorf("save purchase request: %w", err)
	}
	return l.Load(ctx)
}

// Delete cancels a pending request. Terminal requests keep no delete
// affordance in this view. On success the request is dropped from the
// in-memory list without a full reload.
func (l *List) Delete(ctx context.Context, id string) error {
	current, ok := l.Get(id)
	if !ok {
		return ErrNotFound
	}
	if current.Status != domain.StatusPending {
		return ErrNotCancelable
	}

	if err := l.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("cancel purchase request: %w", err)
	}

	l.mu.Lock()
	for i := range l.requests {
		if l.requests[i].ID == id {
			l.requests = append(l.requests[:i], l.requests[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	l.log.Info("purchase request cancelled", slog.String("request_id", id))
	return nil
}
