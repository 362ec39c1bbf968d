package domain

// CartLine is one product in the cart, identical in shape whether it came
// from the backend cart or the guest cart file. ID is server-assigned for
// authenticated carts; guest entries reuse the product id.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl"`
	Seller    string  `json:"seller,omitempty"`
	SellerID  string  `json:"sellerId,omitempty"`
}

// LineTotal is the display total for this line.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
