package app

import (
	"context"

	"github.com/farmlink/marketcart/internal/cart/domain"
)

// Store is the backing cart storage. The remote adapter serves authenticated
// users, the local adapter serves guests; the service is built against
// whichever matches the session and never asks which one it got.
type Store interface {
	List(ctx context.Context) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, lineID string, quantity int) error
	Remove(ctx context.Context, lineID string) error
}
