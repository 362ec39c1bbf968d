package remote

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/marketcart/internal/api"
	"github.com/farmlink/marketcart/internal/api/apitest"
)

func testBackend(t *testing.T) (*apitest.Backend, *Store, string) {
	t.Helper()

	backend := apitest.NewBackend()
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)

	userID := uuid.NewString()
	token := uuid.NewString()
	backend.RegisterToken(token, userID)

	client := api.NewClient(srv.URL, 5*time.Second, func() string { return token })
	return backend, NewStore(client), userID
}

func TestListMapsEmbeddedProduct(t *testing.T) {
	backend, store, userID := testBackend(t)

	p := backend.SeedProduct(apitest.Product{
		Title:      "Heirloom tomatoes",
		Price:      25.00,
		ImageURL:   "https://x/t.jpg",
		SellerID:   "seller-1",
		SellerName: "Amina's Farm",
	})
	lineID := backend.SeedCartItem(userID, p.ID, 2)

	lines, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	got := lines[0]
	require.Equal(t, lineID, got.ID)
	require.Equal(t, p.ID, got.ProductID)
	require.Equal(t, "Heirloom tomatoes", got.Name)
	require.Equal(t, 25.00, got.Price)
	require.Equal(t, 2, got.Quantity)
	require.Equal(t, "Amina's Farm", got.Seller)
	require.Equal(t, "seller-1", got.SellerID)
}

func TestSetQuantityAndRemove(t *testing.T) {
	backend, store, userID := testBackend(t)
	ctx := context.Background()

	p := backend.SeedProduct(apitest.Product{Title: "Honey", Price: 15.50})
	lineID := backend.SeedCartItem(userID, p.ID, 1)

	require.NoError(t, store.SetQuantity(ctx, lineID, 3))
	lines, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, lines[0].Quantity)

	require.NoError(t, store.Remove(ctx, lineID))
	lines, err = store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestUnknownLineSurfacesBackendMessage(t *testing.T) {
	_, store, _ := testBackend(t)

	err := store.SetQuantity(context.Background(), "ghost", 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cart item not found")
}

func TestMissingTokenIsAuthRequired(t *testing.T) {
	backend := apitest.NewBackend()
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)

	store := NewStore(api.NewClient(srv.URL, 5*time.Second, nil))
	_, err := store.List(context.Background())
	require.ErrorIs(t, err, api.ErrAuthRequired)
}
