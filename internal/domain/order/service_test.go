package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetOrder(t *testing.T) {
	store := NewMockStore()
	svc := NewService(store, quietLogger())
	ctx := context.Background()

	created, err := store.Insert(ctx, &Order{CheckoutKey: "k1", Status: OrderStatusProcessing})
	require.NoError(t, err)

	byID, err := svc.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, byID.OrderNumber)

	byNumber, err := svc.GetOrderByNumber(ctx, created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = svc.GetOrderByNumber(ctx, "ORD-00000000-000000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_UpdateOrderStatus(t *testing.T) {
	store := NewMockStore()
	svc := NewService(store, quietLogger())
	ctx := context.Background()

	created, err := store.Insert(ctx, &Order{CheckoutKey: "k1", Status: OrderStatusProcessing})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(ctx, created.OrderNumber, &UpdateStatusRequest{Status: OrderStatusCompleted, Comment: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, updated.Status)

	_, err = svc.UpdateOrderStatus(ctx, created.OrderNumber, &UpdateStatusRequest{Status: OrderStatusFailed})
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}
