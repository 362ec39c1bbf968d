// Package remote adapts the backend purchase-request endpoints to the
// request API port.
package remote

import (
	"context"

	"github.com/farmlink/marketcart/internal/api"
	"github.com/farmlink/marketcart/internal/request/app"
	"github.com/farmlink/marketcart/internal/request/domain"
)

type Store struct {
	client *api.Client
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Create(ctx context.Context, req app.CreateRequest) (domain.PurchaseRequest, error) {
	var created domain.PurchaseRequest
	if err := s.client.Post(ctx, "/purchase-requests", req, &created); err != nil {
		return domain.PurchaseRequest{}, err
	}
	return created, nil
}

func (s *Store) ListMine(ctx context.Context) ([]domain.PurchaseRequest, error) {
	var requests []domain.PurchaseRequest
	if err := s.client.Get(ctx, "/purchase-requests/my-requests", &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Store) Update(ctx context.Context, id string, req app.UpdateRequest) (domain.PurchaseRequest, error) {
	var updated domain.PurchaseRequest
	if err := s.client.Patch(ctx, "/purchase-requests/"+id, req, &updated); err != nil {
		return domain.PurchaseRequest{}, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/purchase-requests/"+id)
}
