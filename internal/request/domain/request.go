package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the purchase-request state: pending is the only live state,
// accepted and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown purchase-request status %q", s)
}

// UnmarshalJSON rejects unknown status strings at the wire boundary instead
// of letting a typo silently disable edit and delete affordances.
func (s *Status) UnmarshalJSON(raw []byte) error {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Editable reports whether the buyer may still change the request.
func (s Status) Editable() bool { return s == StatusPending }

// Terminal reports whether the seller has answered.
func (s Status) Terminal() bool { return s == StatusAccepted || s == StatusRejected }

// ProductSnapshot is the backend's denormalized product view, display only.
type ProductSnapshot struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// SellerSnapshot is the backend's denormalized seller view, display only.
type SellerSnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PurchaseRequest struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"` // authoritative, computed server-side

	BuyerName    string `json:"buyerName"`
	BuyerPhone   string `json:"buyerPhone"`
	BuyerAddress string `json:"buyerAddress,omitempty"`
	BuyerMessage string `json:"buyerMessage,omitempty"`

	Status Status `json:"status"`

	// SellerResponse is set only on rejected requests, SellerPhone only on
	// accepted ones; the phone is the contact-reveal mechanism.
	SellerResponse string `json:"sellerResponse,omitempty"`
	SellerPhone    string `json:"sellerPhone,omitempty"`

	Product ProductSnapshot `json:"product"`
	Seller  SellerSnapshot  `json:"seller"`

	CreatedAt time.Time `json:"createdAt"`
}
