package app

import (
	"context"
	"errors"
	"testing"

	"github.com/farmlink/marketcart/internal/request/domain"
	"github.com/farmlink/marketcart/internal/session"
)

func seededAPI() *fakeAPI {
	return &fakeAPI{requests: []domain.PurchaseRequest{
		{ID: "req-pending", ProductID: "prod-1", Quantity: 2, TotalPrice: 50.00, Status: domain.StatusPending},
		{ID: "req-accepted", ProductID: "prod-2", Quantity: 1, TotalPrice: 15.50, Status: domain.StatusAccepted, SellerPhone: "+261 34 00 000 02"},
		{ID: "req-rejected", ProductID: "prod-3", Quantity: 4, TotalPrice: 8.00, Status: domain.StatusRejected, SellerResponse: "Out of stock"},
	}}
}

func loadedList(t *testing.T, api API) *List {
	t.Helper()
	l := NewList(api, authedSession(), nil)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return l
}

func TestLoadRequiresSession(t *testing.T) {
	api := seededAPI()
	l := NewList(api, session.Session{}, nil)

	if err := l.Load(context.Background()); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if api.listCalls != 0 {
		t.Fatal("no network call should be made without a session")
	}
	if len(l.Requests()) != 0 {
		t.Fatal("nothing should be rendered without a session")
	}
}

func TestContactRevealData(t *testing.T) {
	l := loadedList(t, seededAPI())

	accepted, ok := l.Get("req-accepted")
	if !ok || accepted.SellerPhone != "+261 34 00 000 02" {
		t.Fatalf("expected revealed seller phone, got %+v", accepted)
	}

	rejected, ok := l.Get("req-rejected")
	if !ok || rejected.SellerResponse != "Out of stock" {
		t.Fatalf("expected exact rejection reason, got %+v", rejected)
	}
}

func TestSave(t *testing.T) {
	t.Run("pending request reloads the list", func(t *testing.T) {
		api := seededAPI()
		l := loadedList(t, api)

		qty := 5
		if err := l.Save(context.Background(), "req-pending", UpdateRequest{Quantity: &qty}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if api.updateCalls != 1 {
			t.Fatalf("expected one update call, got %d", api.updateCalls)
		}
		if api.listCalls != 2 {
			t.Fatalf("expected a full reload after save, got %d list calls", api.listCalls)
		}
	})

	t.Run("terminal request is not editable", func(t *testing.T) {
		api := seededAPI()
		l := loadedList(t, api)

		err := l.Save(context.Background(), "req-accepted", UpdateRequest{})
		if !errors.Is(err, ErrNotEditable) {
			t.Fatalf("expected ErrNotEditable, got %v", err)
		}
		if api.updateCalls != 0 {
			t.Fatal("no network call for a terminal request")
		}
	})

	t.Run("stale pending state surfaces the backend rejection", func(t *testing.T) {
		// Locally the request still looks pending, but the seller has
		// answered since; the backend refusal must not be swallowed.
		api := seededAPI()
		api.updateErr = errors.New("request is no longer pending")
		l := loadedList(t, api)

		err := l.Save(context.Background(), "req-pending", UpdateRequest{})
		if err == nil || !errors.Is(err, api.updateErr) {
			t.Fatalf("expected backend rejection to surface, got %v", err)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		l := loadedList(t, seededAPI())
		if err := l.Save(context.Background(), "ghost", UpdateRequest{}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("pending request is removed in place", func(t *testing.T) {
		api := seededAPI()
		l := loadedList(t, api)

		if err := l.Delete(context.Background(), "req-pending"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok := l.Get("req-pending"); ok {
			t.Fatal("request should be gone from the list")
		}
		if api.listCalls != 1 {
			t.Fatalf("delete must not trigger a reload, got %d list calls", api.listCalls)
		}
	})

	t.Run("terminal requests cannot be cancelled", func(t *testing.T) {
		for _, id := range []string{"req-accepted", "req-rejected"} {
			api := seededAPI()
			l := loadedList(t, api)

			if err := l.Delete(context.Background(), id); !errors.Is(err, ErrNotCancelable) {
				t.Fatalf("%s: expected ErrNotCancelable, got %v", id, err)
			}
			if api.deleteCalls != 0 {
				t.Fatalf("%s: no network call for a terminal request", id)
			}
		}
	})

	t.Run("backend failure keeps the request listed", func(t *testing.T) {
		api := seededAPI()
		api.deleteErr = errors.New("boom")
		l := loadedList(t, api)

		if err := l.Delete(context.Background(), "req-pending"); err == nil {
			t.Fatal("expected backend failure to surface")
		}
		if _, ok := l.Get("req-pending"); !ok {
			t.Fatal("request must stay listed when the delete failed")
		}
	})
}
