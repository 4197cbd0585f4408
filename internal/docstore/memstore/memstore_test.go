package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

func TestGetSetRoundTrip(t *testing.T) {
	st := New()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "orders", "o1", map[string]any{"status": "pending"}, false))

	doc, ok, err := st.Get(ctx, "orders", "o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "pending", doc.Data["status"])

	_, ok, err = st.Get(ctx, "orders", "missing")
	require.NoError(t, err)
	assert.False(t, ok, "a miss is absent, not an error")
}

func TestSetMerge(t *testing.T) {
	st := New()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "orders", "o1", map[string]any{"a": 1, "b": 1}, false))
	require.NoError(t, st.Set(ctx, "orders", "o1", map[string]any{"b": 2}, true))

	doc, _, _ := st.Get(ctx, "orders", "o1")
	assert.Equal(t, 1, doc.Data["a"])
	assert.Equal(t, 2, doc.Data["b"])

	// non-merge replaces wholesale
	require.NoError(t, st.Set(ctx, "orders", "o1", map[string]any{"c": 3}, false))
	doc, _, _ = st.Get(ctx, "orders", "o1")
	assert.NotContains(t, doc.Data, "a")
}

func TestUpdateMissing(t *testing.T) {
	st := New()
	err := st.Update(context.Background(), "orders", "nope", map[string]any{"x": 1})
	assert.ErrorIs(t, err, docstore.ErrNoDocument)
}

func TestQuery(t *testing.T) {
	st := New()
	ctx := context.Background()
	st.Seed("orders", "o1", map[string]any{"userId": "u1"})
	st.Seed("orders", "o2", map[string]any{"userId": "u2"})
	st.Seed("orders", "o3", map[string]any{"userId": "u1"})

	docs, err := st.Query(ctx, "orders", "userId", "u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "o1", docs[0].ID)
	assert.Equal(t, "o3", docs[1].ID)
}

func TestAddAssignsID(t *testing.T) {
	st := New()
	id, err := st.Add(context.Background(), "orders", map[string]any{"userId": "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, ok, _ := st.Get(context.Background(), "orders", id)
	assert.True(t, ok)
}

func TestSubscribeEmitsSnapshots(t *testing.T) {
	st := New()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := st.Subscribe(ctx, "orders", &docstore.Filter{Field: "userId", Equals: "u1"})
	require.NoError(t, err)

	assert.Empty(t, <-ch, "initial snapshot")

	require.NoError(t, st.Set(ctx, "orders", "o1", map[string]any{"userId": "u1"}, false))
	snap := <-ch
	require.Len(t, snap, 1)
	assert.Equal(t, "o1", snap[0].ID)

	// a write for another user still triggers a (filtered) snapshot
	require.NoError(t, st.Set(ctx, "orders", "o2", map[string]any{"userId": "u2"}, false))
	snap = <-ch
	assert.Len(t, snap, 1)

	cancel()
	for range ch { // drains until closed
	}
}

func TestDocsAreCopies(t *testing.T) {
	st := New()
	ctx := context.Background()
	st.Seed("orders", "o1", map[string]any{"status": "pending"})

	doc, _, _ := st.Get(ctx, "orders", "o1")
	doc.Data["status"] = "mutated"

	again, _, _ := st.Get(ctx, "orders", "o1")
	assert.Equal(t, "pending", again.Data["status"])
}
