package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
)

func setupTestService(t *testing.T) (*Service, *miniredis.Miniredis, *inventory.MemoryOracle) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	catalog := inventory.NewMemoryOracle()
	catalog.Put(inventory.Product{ID: "A", Price: decimal.RequireFromString("50.00"), StockQuantity: 0, IsActive: true})
	catalog.Put(inventory.Product{ID: "Z", Price: decimal.RequireFromString("1.00"), StockQuantity: 9, IsActive: false})

	return NewService(client, catalog, time.Hour), mr, catalog
}

func TestService_Load_UnknownSessionReturnsEmptyCart(t *testing.T) {
	svc, _, _ := setupTestService(t)

	c, err := svc.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestService_Load_RequiresSession(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionRequired)
}

func TestService_SaveAndLoad(t *testing.T) {
	svc, mr, _ := setupTestService(t)
	ctx := context.Background()

	c := New()
	c.AddItem("A", decimal.RequireFromString("50.00"), 2)
	require.NoError(t, svc.Save(ctx, "session-1", c))

	assert.True(t, mr.Exists("cart:session:session-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:session-1"))

	loaded, err := svc.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, 2, loaded.Items[0].Quantity)
}

func TestService_SaveEmptyCartDeletesKey(t *testing.T) {
	svc, mr, _ := setupTestService(t)
	ctx := context.Background()

	c := New()
	c.AddItem("A", decimal.RequireFromString("50.00"), 1)
	require.NoError(t, svc.Save(ctx, "session-1", c))

	c.Clear()
	require.NoError(t, svc.Save(ctx, "session-1", c))
	assert.False(t, mr.Exists("cart:session:session-1"))
}

func TestService_Load_CorruptData(t *testing.T) {
	svc, mr, _ := setupTestService(t)

	require.NoError(t, mr.Set("cart:session:bad", "{not json"))

	_, err := svc.Load(context.Background(), "bad")
	assert.Error(t, err)
}

func TestService_AddToCart_UsesCatalogPriceWithoutStockCheck(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "A", Quantity: 3})
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "A"})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestService_AddToCart_Unavailable(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "Z", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestService_UpdateAndRemove(t *testing.T) {
	svc, mr, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "A", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.UpdateCartItem(ctx, "session-1", "A", &UpdateCartItemRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, c.ItemCount())

	_, err = svc.UpdateCartItem(ctx, "session-1", "missing", &UpdateCartItemRequest{Quantity: 5})
	assert.ErrorIs(t, err, ErrItemNotFound)

	c, err = svc.RemoveFromCart(ctx, "session-1", "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	c, err = svc.UpdateCartItem(ctx, "session-1", "A", &UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.False(t, mr.Exists("cart:session:session-1"))
}

func TestService_ClearCartTwice(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "session-1", &AddToCartRequest{ProductID: "A", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "session-1"))
	require.NoError(t, svc.ClearCart(ctx, "session-1"))

	c, err := svc.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestNewCartResponse(t *testing.T) {
	c := New()
	c.AddItem("A", decimal.RequireFromString("0.335"), 3)

	resp := NewCartResponse("s", c)
	assert.Equal(t, 3, resp.ItemCount)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("1.01")))
}
