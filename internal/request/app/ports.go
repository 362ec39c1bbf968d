package app

import (
	"context"

	"github.com/farmlink/marketcart/internal/request/domain"
)

type CreateRequest struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	BuyerName    string `json:"buyerName"`
	BuyerPhone   string `json:"buyerPhone"`
	BuyerAddress string `json:"buyerAddress,omitempty"`
	BuyerMessage string `json:"buyerMessage,omitempty"`
}

// UpdateRequest is a partial patch; nil fields are left untouched.
type UpdateRequest struct {
	Quantity     *int    `json:"quantity,omitempty"`
	BuyerName    *string `json:"buyerName,omitempty"`
	BuyerPhone   *string `json:"buyerPhone,omitempty"`
	BuyerAddress *string `json:"buyerAddress,omitempty"`
	BuyerMessage *string `json:"buyerMessage,omitempty"`
}

// API is the backend purchase-request surface.
type API interface {
	Create(ctx context.Context, req CreateRequest) (domain.PurchaseRequest, error)
	ListMine(ctx context.Context) ([]domain.PurchaseRequest, error)
	Update(ctx context.Context, id string, req UpdateRequest) (domain.PurchaseRequest, error)
	Delete(ctx context.Context, id string) error
}

// CartRemover is the one cross-component effect the composer owns: a
// submitted request means its cart line is spoken for.
type CartRemover interface {
	Remove(ctx context.Context, lineID string) error
}
