// Package remote adapts the backend cart endpoints to the cart store port.
// The backend embeds the product join in each cart item; this adapter
// flattens it into the shared CartLine shape.
package remote

import (
	"context"
	"encoding/json"

	"github.com/farmlink/marketcart/internal/api"
	"github.com/farmlink/marketcart/internal/cart/domain"
)

type Store struct {
	client *api.Client
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

type cartResponse struct {
	Items []cartItem `json:"items"`
}

type cartItem struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  productJoin `json:"product"`
}

type productJoin struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	// The backend is split between produce listings ("vendeur") and farm
	// listings ("farmer"); either may carry the seller.
	Vendeur *seller `json:"vendeur"`
	Farmer  *seller `json:"farmer"`
}

// seller tolerates both the populated object and the bare display string the
// backend emits depending on the listing type.
type seller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *seller) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		s.Name = name
		return nil
	}

	type alias seller
	var obj alias
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	*s = seller(obj)
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.CartLine, error) {
	var resp cartResponse
	if err := s.client.Get(ctx, "/cart", &resp); err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(resp.Items))
	for _, item := range resp.Items {
		who := item.Product.Vendeur
		if who == nil {
			who = item.Product.Farmer
		}

		line := domain.CartLine{
			ID:        item.ID,
			ProductID: item.Product.ID,
			Name:      item.Product.Title,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.Product.ImageURL,
		}
		if who != nil {
			line.Seller = who.Name
			line.SellerID = who.ID
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Store) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	return s.client.Patch(ctx, "/cart/items/"+lineID, body, nil)
}

func (s *Store) Remove(ctx context.Context, lineID string) error {
	return s.client.Delete(ctx, "/cart/items/"+lineID)
}
