// Package local persists the guest cart as a single JSON file. Guests have
// no server-side cart, so this file is the source of truth between runs; it
// is read in full and rewritten in full on every change.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/farmlink/marketcart/internal/cart/domain"
)

var ErrLineNotFound = errors.New("line not in guest cart")

// line is the on-disk shape. Guest entries carry no server line id, so the
// product id serves as both.
type line struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl"`
	Seller   string  `json:"seller,omitempty"`
	SellerID string  `json:"sellerId,omitempty"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) List(ctx context.Context) ([]domain.CartLine, error) {
	lines, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.CartLine{
			ID:        l.ID,
			ProductID: l.ID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
			Seller:    l.Seller,
			SellerID:  l.SellerID,
		})
	}
	return out, nil
}

func (s *Store) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, lineID)
	}

	lines, err := s.read()
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			return s.write(lines)
		}
	}
	return ErrLineNotFound
}

func (s *Store) Remove(ctx context.Context, lineID string) error {
	lines, err := s.read()
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].ID == lineID {
			return s.write(append(lines[:i], lines[i+1:]...))
		}
	}
	return ErrLineNotFound
}

// Add upserts a product into the guest cart, incrementing quantity when the
// product is already present.
func (s *Store) Add(ctx context.Context, l domain.CartLine) error {
	lines, err := s.read()
	if err != nil {
		return err
	}

	for i := range lines {
		if lines[i].ID == l.ProductID {
			lines[i].Quantity += l.Quantity
			return s.write(lines)
		}
	}

	lines = append(lines, line{
		ID:       l.ProductID,
		Name:     l.Name,
		Price:    l.Price,
		Quantity: l.Quantity,
		ImageURL: l.ImageURL,
		Seller:   l.Seller,
		SellerID: l.SellerID,
	})
	return s.write(lines)
}

func (s *Store) read() ([]line, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read guest cart: %w", err)
	}

	var lines []line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("parse guest cart: %w", err)
	}
	return lines, nil
}

func (s *Store) write(lines []line) error {
	if lines == nil {
		lines = []line{}
	}
	raw, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("write guest cart: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write guest cart: %w", err)
	}
	return nil
}
