package app

import (
	"context"
	"errors"
	"testing"

	"github.com/farmlink/marketcart/internal/cart/domain"
)

type fakeStore struct {
	lines []domain.CartLine

	listCalls int
	setCalls  int
	failWith  error
}

func (f *fakeStore) List(ctx context.Context) ([]domain.CartLine, error) {
	f.listCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.CartLine, len(f.lines))
	copy(out, f.lines)
	return out, nil
}

func (f *fakeStore) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	f.setCalls++
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines[i].Quantity = quantity
			return nil
		}
	}
	return errors.New("no such line")
}

func (f *fakeStore) Remove(ctx context.Context, lineID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return errors.New("no such line")
}

func twoLineStore() *fakeStore {
	return &fakeStore{lines: []domain.CartLine{
		{ID: "line-a", ProductID: "prod-a", Name: "Product A", Price: 25.00, Quantity: 2},
		{ID: "line-b", ProductID: "prod-b", Name: "Product B", Price: 15.50, Quantity: 1},
	}}
}

func loadedService(t *testing.T, store Store) *Service {
	t.Helper()
	svc := NewService(store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return svc
}

func TestSubtotal(t *testing.T) {
	svc := loadedService(t, twoLineStore())

	if got := svc.Subtotal(); got != 65.50 {
		t.Fatalf("expected subtotal 65.50, got %v", got)
	}

	t.Run("recomputed after mutation", func(t *testing.T) {
		if err := svc.UpdateQuantity(context.Background(), "line-a", 3); err != nil {
			t.Fatalf("UpdateQuantity failed: %v", err)
		}

		var fresh float64
		for _, l := range svc.Lines() {
			fresh += l.Price * float64(l.Quantity)
		}
		if got := svc.Subtotal(); got != fresh {
			t.Fatalf("subtotal drifted: got %v, fresh sum %v", got, fresh)
		}
	})
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("positive quantity updates exactly one line", func(t *testing.T) {
		svc := loadedService(t, twoLineStore())

		if err := svc.UpdateQuantity(context.Background(), "line-b", 4); err != nil {
			t.Fatalf("UpdateQuantity failed: %v", err)
		}

		matches := 0
		for _, l := range svc.Lines() {
			if l.ID == "line-b" {
				matches++
				if l.Quantity != 4 {
					t.Fatalf("expected quantity 4, got %d", l.Quantity)
				}
			}
		}
		if matches != 1 {
			t.Fatalf("expected exactly one line-b, got %d", matches)
		}
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc := loadedService(t, twoLineStore())

		if err := svc.UpdateQuantity(context.Background(), "line-a", 0); err != nil {
			t.Fatalf("UpdateQuantity failed: %v", err)
		}
		if _, ok := svc.Line("line-a"); ok {
			t.Fatal("line-a should have been removed")
		}
	})

	t.Run("negative quantity removes the line", func(t *testing.T) {
		svc := loadedService(t, twoLineStore())

		if err := svc.UpdateQuantity(context.Background(), "line-b", -2); err != nil {
			t.Fatalf("UpdateQuantity failed: %v", err)
		}
		if _, ok := svc.Line("line-b"); ok {
			t.Fatal("line-b should have been removed")
		}
	})

	t.Run("store failure leaves memory untouched", func(t *testing.T) {
		store := twoLineStore()
		svc := loadedService(t, store)

		store.failWith = errors.New("backend down")
		if err := svc.UpdateQuantity(context.Background(), "line-a", 9); err == nil {
			t.Fatal("expected store failure to surface")
		}

		line, ok := svc.Line("line-a")
		if !ok || line.Quantity != 2 {
			t.Fatalf("expected line-a quantity to stay 2, got %+v (ok=%v)", line, ok)
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		svc := loadedService(t, twoLineStore())

		err := svc.UpdateQuantity(context.Background(), "nope", 1)
		if !errors.Is(err, ErrLineNotFound) {
			t.Fatalf("expected ErrLineNotFound, got %v", err)
		}
	})
}

func TestRemove(t *testing.T) {
	store := twoLineStore()
	svc := loadedService(t, store)

	if err := svc.Remove(context.Background(), "line-a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(svc.Lines()) != 1 {
		t.Fatalf("expected 1 line left, got %d", len(svc.Lines()))
	}
	if len(store.lines) != 1 {
		t.Fatalf("expected store to hold 1 line, got %d", len(store.lines))
	}
}

func TestLoadFailureSurfaced(t *testing.T) {
	store := &fakeStore{failWith: errors.New("connection refused")}
	svc := NewService(store, nil)

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected load failure to surface")
	}
}

func TestEmptyStoreLoadsEmptyCart(t *testing.T) {
	store := &fakeStore{}
	svc := loadedService(t, store)

	if len(svc.Lines()) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(svc.Lines()))
	}
	if svc.Subtotal() != 0 {
		t.Fatalf("expected zero subtotal, got %v", svc.Subtotal())
	}
}
