// marketcart is the terminal client for the marketplace cart and
// purchase-request workflow. With a valid session it works against the
// backend cart; without one it works on the local guest cart.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/farmlink/marketcart/internal/api"
	cartapp "github.com/farmlink/marketcart/internal/cart/app"
	cartlocal "github.com/farmlink/marketcart/internal/cart/infra/local"
	cartremote "github.com/farmlink/marketcart/internal/cart/infra/remote"
	reqapp "github.com/farmlink/marketcart/internal/request/app"
	reqdomain "github.com/farmlink/marketcart/internal/request/domain"
	reqremote "github.com/farmlink/marketcart/internal/request/infra/remote"
	"github.com/farmlink/marketcart/internal/session"
	"github.com/farmlink/marketcart/pkg/config"
	"github.com/farmlink/marketcart/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type env struct {
	cart     *cartapp.Service
	requests *reqapp.List
	composer *reqapp.Composer
	sess     session.Session
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()
		return errors.New("no command specified")
	}

	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "marketcart",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Text:    true,
	})

	sess, err := session.Load(cfg.SessionFile)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, func() string { return sess.Token })

	var store cartapp.Store
	if sess.Valid() {
		store = cartremote.NewStore(client)
	} else {
		store = cartlocal.NewStore(cfg.GuestCartFile)
	}

	cart := cartapp.NewService(store, log)
	requestAPI := reqremote.NewStore(client)

	e := env{
		cart:     cart,
		requests: reqapp.NewList(requestAPI, sess, log),
		composer: reqapp.NewComposer(requestAPI, cart, sess, log),
		sess:     sess,
	}

	ctx := context.Background()

	switch cmd := args[0]; cmd {
	case "cart":
		return e.showCart(ctx)
	case "cart-set":
		return e.setQuantity(ctx, args[1:])
	case "cart-remove":
		return e.removeLine(ctx, args[1:])
	case "submit":
		return e.submit(ctx, args[1:])
	case "requests":
		return e.showRequests(ctx)
	case "request-edit":
		return e.editRequest(ctx, args[1:])
	case "request-cancel":
		return e.cancelRequest(ctx, args[1:])
	case "overview":
		return e.overview(ctx)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (e env) showCart(ctx context.Context) error {
	if err := e.cart.Load(ctx); err != nil {
		return err
	}

	lines := e.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}
	for _, l := range lines {
		fmt.Printf("%-36s  %-30s  %3d x %8.2f = %9.2f  (%s)\n",
			l.ID, l.Name, l.Quantity, l.Price, l.LineTotal(), l.Seller)
	}
	fmt.Printf("Subtotal: %.2f\n", e.cart.Subtotal())
	return nil
}

func (e env) setQuantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: marketcart cart-set <line-id> <quantity>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	if err := e.cart.Load(ctx); err != nil {
		return err
	}
	if err := e.cart.UpdateQuantity(ctx, args[0], qty); err != nil {
		return err
	}
	fmt.Printf("Subtotal: %.2f\n", e.cart.Subtotal())
	return nil
}

func (e env) removeLine(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: marketcart cart-remove <line-id>")
	}
	if err := e.cart.Load(ctx); err != nil {
		return err
	}
	return e.cart.Remove(ctx, args[0])
}

func (e env) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	name := fs.String("name", "", "buyer name (defaults to profile)")
	phone := fs.String("phone", "", "buyer phone (defaults to profile)")
	address := fs.String("address", "", "delivery address")
	message := fs.String("message", "", "message to the seller")
	qty := fs.Int("qty", 0, "quantity (defaults to the cart line)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: marketcart submit <line-id> [flags]")
	}

	if err := e.cart.Load(ctx); err != nil {
		return err
	}
	line, ok := e.cart.Line(fs.Arg(0))
	if !ok {
		return cartapp.ErrLineNotFound
	}

	form := reqapp.NewForm(line, e.sess.Defaults())
	if *name != "" {
		form.Name = *name
	}
	if *phone != "" {
		form.Phone = *phone
	}
	if *address != "" {
		form.Address = *address
	}
	if *message != "" {
		form.Message = *message
	}
	if *qty > 0 {
		form.Quantity = *qty
	}

	created, err := e.composer.Submit(ctx, line, form)
	if err != nil {
		if created.ID != "" {
			// Request went through; only the cart cleanup failed.
			fmt.Printf("Request %s submitted (total %.2f); warning: %v\n", created.ID, created.TotalPrice, err)
			return nil
		}
		return err
	}
	fmt.Printf("Request %s submitted, total %.2f. The seller will respond soon.\n", created.ID, created.TotalPrice)
	return nil
}

func (e env) showRequests(ctx context.Context) error {
	if err := e.requests.Load(ctx); err != nil {
		return err
	}

	requests := e.requests.Requests()
	if len(requests) == 0 {
		fmt.Println("No purchase requests yet.")
		return nil
	}
	for _, r := range requests {
		printRequest(r)
	}
	return nil
}

func printRequest(r reqdomain.PurchaseRequest) {
	fmt.Printf("%-36s  %-30s  qty %3d  total %9.2f  [%s]\n",
		r.ID, r.Product.Title, r.Quantity, r.TotalPrice, r.Status)
	switch r.Status {
	case reqdomain.StatusAccepted:
		fmt.Printf("    accepted: contact %s at %s\n", r.Seller.Name, r.SellerPhone)
	case reqdomain.StatusRejected:
		fmt.Printf("    rejected: %s\n", r.SellerResponse)
	}
}

func (e env) editRequest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request-edit", flag.ExitOnError)
	name := fs.String("name", "", "buyer name")
	phone := fs.String("phone", "", "buyer phone")
	address := fs.String("address", "", "delivery address")
	message := fs.String("message", "", "message to the seller")
	qty := fs.Int("qty", 0, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: marketcart request-edit <request-id> [flags]")
	}

	if err := e.requests.Load(ctx); err != nil {
		return err
	}

	var edits reqapp.UpdateRequest
	if *name != "" {
		edits.BuyerName = name
	}
	if *phone != "" {
		edits.BuyerPhone = phone
	}
	if *address != "" {
		edits.BuyerAddress = address
	}
	if *message != "" {
		edits.BuyerMessage = message
	}
	if *qty > 0 {
		edits.Quantity = qty
	}

	return e.requests.Save(ctx, fs.Arg(0), edits)
}

func (e env) cancelRequest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request-cancel", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: marketcart request-cancel <request-id> [--yes]")
	}

	if err := e.requests.Load(ctx); err != nil {
		return err
	}

	if !*yes && !confirm(fmt.Sprintf("Cancel request %s?", fs.Arg(0))) {
		fmt.Println("Aborted.")
		return nil
	}
	return e.requests.Delete(ctx, fs.Arg(0))
}

// overview fetches the cart and the request list concurrently; guests only
// get the cart half.
func (e env) overview(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.cart.Load(ctx) })
	if e.sess.Valid() {
		g.Go(func() error { return e.requests.Load(ctx) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Cart: %d line(s), subtotal %.2f\n", len(e.cart.Lines()), e.cart.Subtotal())
	if e.sess.Valid() {
		pending := 0
		for _, r := range e.requests.Requests() {
			if r.Status == reqdomain.StatusPending {
				pending++
			}
		}
		fmt.Printf("Requests: %d total, %d pending\n", len(e.requests.Requests()), pending)
	} else {
		fmt.Println("Sign in to see your purchase requests.")
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `marketcart - marketplace cart and purchase requests

USAGE:
    marketcart <command> [arguments]

COMMANDS:
    cart                          show cart lines and subtotal
    cart-set <line-id> <qty>      change a line's quantity (0 removes it)
    cart-remove <line-id>         remove a line
    submit <line-id> [flags]      send a purchase request for a line
    requests                      list your purchase requests
    request-edit <id> [flags]     edit a pending request
    request-cancel <id> [--yes]   cancel a pending request
    overview                      cart and request summary
    help                          show this help`)
}
