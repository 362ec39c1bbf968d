// Package apitest is an in-memory marketplace backend implementing the REST
// surface this module consumes. Tests mount it behind httptest; cmd/stubserver
// runs it standalone for local development.
package apitest

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdomain "github.com/farmlink/marketcart/internal/request/domain"
)

type Product struct {
	ID          string
	Title       string
	Price       float64
	ImageURL    string
	SellerID    string
	SellerName  string
	SellerPhone string
}

type cartEntry struct {
	id        string
	userID    string
	productID string
	quantity  int
}

type requestRecord struct {
	reqdomain.PurchaseRequest
	userID string
}

type Backend struct {
	mu       sync.Mutex
	tokens   map[string]string // bearer token -> user id
	products map[string]Product
	cart     []cartEntry
	requests []requestRecord
}

func NewBackend() *Backend {
	return &Backend{
		tokens:   make(map[string]string),
		products: make(map[string]Product),
	}
}

// RegisterToken makes token authenticate as userID.
func (b *Backend) RegisterToken(token, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = userID
}

func (b *Backend) SeedProduct(p Product) Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	b.products[p.ID] = p
	return p
}

// SeedCartItem puts a product in userID's server-side cart and returns the
// cart line id.
func (b *Backend) SeedCartItem(userID, productID string, quantity int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry := cartEntry{
		id:        uuid.NewString(),
		userID:    userID,
		productID: productID,
		quantity:  quantity,
	}
	b.cart = append(b.cart, entry)
	return entry.id
}

// Accept transitions a request to accepted and reveals the seller phone, as
// the seller-side application would.
func (b *Backend) Accept(requestID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		if b.requests[i].ID == requestID {
			b.requests[i].Status = reqdomain.StatusAccepted
			b.requests[i].SellerPhone = b.products[b.requests[i].ProductID].SellerPhone
			return
		}
	}
}

// Reject transitions a request to rejected with the seller's stated reason.
func (b *Backend) Reject(requestID, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		if b.requests[i].ID == requestID {
			b.requests[i].Status = reqdomain.StatusRejected
			b.requests[i].SellerResponse = reason
			return
		}
	}
}

// CartSize reports how many lines userID's server cart holds.
func (b *Backend) CartSize(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.cart {
		if e.userID == userID {
			n++
		}
	}
	return n
}

// Router mounts the REST surface.
func (b *Backend) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/cart", b.auth(b.getCart))
	r.PATCH("/cart/items/:id", b.auth(b.patchCartItem))
	r.DELETE("/cart/items/:id", b.auth(b.deleteCartItem))

	r.POST("/purchase-requests", b.auth(b.createRequest))
	r.GET("/purchase-requests/my-requests", b.auth(b.myRequests))
	r.PATCH("/purchase-requests/:id", b.auth(b.patchRequest))
	r.DELETE("/purchase-requests/:id", b.auth(b.deleteRequest))

	return r
}

func (b *Backend) auth(next func(c *gin.Context, userID string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		b.mu.Lock()
		userID, ok := b.tokens[header[len(prefix):]]
		b.mu.Unlock()
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		next(c, userID)
	}
}

type wireCartItem struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  wireProduct `json:"product"`
}

type wireProduct struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Price    float64    `json:"price"`
	ImageURL string     `json:"imageUrl"`
	Vendeur  wireSeller `json:"vendeur"`
}

type wireSeller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (b *Backend) getCart(c *gin.Context, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]wireCartItem, 0)
	for _, e := range b.cart {
		if e.userID != userID {
			continue
		}
		p := b.products[e.productID]
		items = append(items, wireCartItem{
			ID:       e.id,
			Quantity: e.quantity,
			Product: wireProduct{
				ID:       p.ID,
				Title:    p.Title,
				Price:    p.Price,
				ImageURL: p.ImageURL,
				Vendeur:  wireSeller{ID: p.SellerID, Name: p.SellerName},
			},
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (b *Backend) patchCartItem(c *gin.Context, userID string) {
	var body struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cart {
		if b.cart[i].id == c.Param("id") && b.cart[i].userID == userID {
			b.cart[i].quantity = body.Quantity
			c.JSON(http.StatusOK, gin.H{"id": b.cart[i].id, "quantity": body.Quantity})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
}

func (b *Backend) deleteCartItem(c *gin.Context, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cart {
		if b.cart[i].id == c.Param("id") && b.cart[i].userID == userID {
			b.cart = append(b.cart[:i], b.cart[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "cart item not found"})
}

func (b *Backend) createRequest(c *gin.Context, userID string) {
	var body struct {
		ProductID    string `json:"productId" binding:"required"`
		Quantity     int    `json:"quantity" binding:"required,gt=0"`
		BuyerName    string `json:"buyerName" binding:"required"`
		BuyerPhone   string `json:"buyerPhone" binding:"required"`
		BuyerAddress string `json:"buyerAddress"`
		BuyerMessage string `json:"buyerMessage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.products[body.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	rec := requestRecord{
		PurchaseRequest: reqdomain.PurchaseRequest{
			ID:           uuid.NewString(),
			ProductID:    p.ID,
			Quantity:     body.Quantity,
			TotalPrice:   p.Price * float64(body.Quantity),
			BuyerName:    body.BuyerName,
			BuyerPhone:   body.BuyerPhone,
			BuyerAddress: body.BuyerAddress,
			BuyerMessage: body.BuyerMessage,
			Status:       reqdomain.StatusPending,
			Product: reqdomain.ProductSnapshot{
				ID:       p.ID,
				Title:    p.Title,
				Price:    p.Price,
				ImageURL: p.ImageURL,
			},
			Seller: reqdomain.SellerSnapshot{ID: p.SellerID, Name: p.SellerName},
		},
		userID: userID,
	}
	b.requests = append(b.requests, rec)
	c.JSON(http.StatusCreated, rec.PurchaseRequest)
}

func (b *Backend) myRequests(c *gin.Context, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]reqdomain.PurchaseRequest, 0)
	for _, rec := range b.requests {
		if rec.userID == userID {
			out = append(out, rec.PurchaseRequest)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) patchRequest(c *gin.Context, userID string) {
	var body struct {
		Quantity     *int    `json:"quantity"`
		BuyerName    *string `json:"buyerName"`
		BuyerPhone   *string `json:"buyerPhone"`
		BuyerAddress *string `json:"buyerAddress"`
		BuyerMessage *string `json:"buyerMessage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		rec := &b.requests[i]
		if rec.ID != c.Param("id") || rec.userID != userID {
			continue
		}
		if rec.Status != reqdomain.StatusPending {
			c.JSON(http.StatusConflict, gin.H{"message": "request is no longer pending"})
			return
		}
		if body.Quantity != nil {
			rec.Quantity = *body.Quantity
			rec.TotalPrice = rec.Product.Price * float64(*body.Quantity)
		}
		if body.BuyerName != nil {
			rec.BuyerName = *body.BuyerName
		}
		if body.BuyerPhone != nil {
			rec.BuyerPhone = *body.BuyerPhone
		}
		if body.BuyerAddress != nil {
			rec.BuyerAddress = *body.BuyerAddress
		}
		if body.BuyerMessage != nil {
			rec.BuyerMessage = *body.BuyerMessage
		}
		c.JSON(http.StatusOK, rec.PurchaseRequest)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "purchase request not found"})
}

func (b *Backend) deleteRequest(c *gin.Context, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		rec := b.requests[i]
		if rec.ID != c.Param("id") || rec.userID != userID {
			continue
		}
		if rec.Status != reqdomain.StatusPending {
			c.JSON(http.StatusConflict, gin.H{"message": "request is no longer pending"})
			return
		}
		b.requests = append(b.requests[:i], b.requests[i+1:]...)
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "purchase request not found"})
}
