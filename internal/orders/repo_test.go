package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/memstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

func newRepo() (*orders.Repo, *memstore.Store) {
	st := memstore.New()
	return &orders.Repo{Store: st}, st
}

func TestCreateAndGet(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, orders.Order{
		UserID: "u1",
		Amount: 500,
		Items:  []orders.LineItem{orders.SimpleItem{ProductID: "p1", Title: "Tee", Quantity: 2, Price: "250"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	o, err := repo.Order(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, orders.PaymentPending, o.PaymentStatus)
	assert.Equal(t, "u1", o.UserID)
	require.Len(t, o.StatusHistory, 1, "creation seeds the history")
	require.Len(t, o.Items, 1)
}

func TestGetMissing(t *testing.T) {
	repo, _ := newRepo()
	_, err := repo.Order(context.Background(), "nope")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, orders.Order{UserID: "u1", Items: []orders.LineItem{orders.SimpleItem{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	o, err := repo.UpdateStatus(ctx, id, orders.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusShipped, o.Status)
	assert.Len(t, o.StatusHistory, 2)

	// shipped never goes back to pending; stored state must be untouched
	_, err = repo.UpdateStatus(ctx, id, orders.StatusPending)
	assert.ErrorIs(t, err, orders.ErrInvalidTransition)

	cur, err := repo.Order(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusShipped, cur.Status)
	assert.Len(t, cur.StatusHistory, 2)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, orders.Order{UserID: "u1", Items: []orders.LineItem{orders.SimpleItem{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePaymentStatus(ctx, id, orders.PaymentCompleted, "pay_123"))
	o, err := repo.Order(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentCompleted, o.PaymentStatus)
	assert.Equal(t, "pay_123", o.RazorpayPaymentID)
}

func TestOrdersByUser(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	for _, user := range []string{"u1", "u1", "u2"} {
		_, err := repo.Create(ctx, orders.Order{UserID: user, Items: []orders.LineItem{orders.SimpleItem{ProductID: "p", Quantity: 1}}})
		require.NoError(t, err)
	}

	list, err := repo.OrdersByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDelete(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, orders.Order{UserID: "u1", Items: []orders.LineItem{orders.SimpleItem{ProductID: "p", Quantity: 1}}})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Order(ctx, id)
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestWatchUser(t *testing.T) {
	repo, _ := newRepo()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := repo.WatchUser(ctx, "u1")
	require.NoError(t, err)

	first := <-ch
	assert.Empty(t, first, "initial snapshot is empty")

	_, err = repo.Create(ctx, orders.Order{UserID: "u1", Items: []orders.LineItem{orders.SimpleItem{ProductID: "p", Quantity: 1}}})
	require.NoError(t, err)

	next := <-ch
	require.Len(t, next, 1)
	assert.Equal(t, "u1", next[0].UserID)
}
