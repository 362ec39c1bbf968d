package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	cartdomain "github.com/farmlink/marketcart/internal/cart/domain"
	"github.com/farmlink/marketcart/internal/request/domain"
	"github.com/farmlink/marketcart/internal/session"
)

var (
	ErrAuthRequired   = errors.New("sign in to send a purchase request")
	ErrMissingField   = errors.New("required buyer field is empty")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// BuyerForm is the composer's editable state, prefilled from the cart line
// and the session profile.
type BuyerForm struct {
	Quantity int
	Name     string
	Phone    string
	Address  string
	Message  string
}

// NewForm seeds a form for one cart line: the line's current quantity plus
// the buyer's profile defaults.
func NewForm(line cartdomain.CartLine, defaults session.Defaults) BuyerForm {
	return BuyerForm{
		Quantity: line.Quantity,
		Name:     defaults.Name,
		Phone:    defaults.Phone,
		Address:  defaults.Address,
	}
}

// Composer turns one cart line into a submitted purchase request.
type Composer struct {
	api  API
	cart CartRemover
	sess session.Session
	log  *slog.Logger

	inFlight atomic.Bool
}

func NewComposer(api API, cart CartRemover, sess session.Session, log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{api: api, cart: cart, sess: sess, log: log}
}

// Submit validates the form, posts the request and, on success, removes the
// originating cart line. Validation failures never reach the network. Only
// one submission may be in flight at a time.
//
// When the request was created but the cart removal failed, the request is
// returned together with the removal error so the caller can warn rather
// than retry a submission that already succeeded.
func (c *Composer) Submit(ctx context.Context, line cartdomain.CartLine, form BuyerForm) (domain.PurchaseRequest, error) {
	if !c.sess.Valid() {
		return domain.PurchaseRequest{}, ErrAuthRequired
	}
	if strings.TrimSpace(form.Name) == "" {
		return domain.PurchaseRequest{}, fmt.Errorf("%w: buyer name", ErrMissingField)
	}
	if strings.TrimSpace(form.Phone) == "" {
		return domain.PurchaseRequest{}, fmt.Errorf("%w: buyer phone", ErrMissingField)
	}
	quantity := form.Quantity
	if quantity <= 0 {
		quantity = line.Quantity
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return domain.PurchaseRequest{}, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	created, err := c.api.Create(ctx, CreateRequest{
		ProductID:    line.ProductID,
		Quantity:     quantity,
		BuyerName:    strings.TrimSpace(form.Name),
		BuyerPhone:   strings.TrimSpace(form.Phone),
		BuyerAddress: strings.TrimSpace(form.Address),
		BuyerMessage: strings.TrimSpace(form.Message),
	})
	if err != nil {
		return domain.PurchaseRequest{}, fmt.Errorf("submit purchase request: %w", err)
	}

	c.log.Info("purchase request submitted",
		slog.String("request_id", created.ID),
		slog.String("product_id", created.ProductID),
	)

	if err := c.cart.Remove(ctx, line.ID); err != nil {
		return created, fmt.Errorf("request %s submitted but cart line not removed: %w", created.ID, err)
	}
	return created, nil
}
