package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore/memstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

func seededStore() *memstore.Store {
	st := memstore.New()
	st.Seed(docstore.ColBundles, "b1", map[string]any{
		"name":               "Summer Combo",
		"description":        "three picks",
		"bundlePrice":        "1799",
		"originalTotalPrice": "2499",
		"discount":           float64(28),
		"category":           "tops",
		"products": []any{
			map[string]any{"productId": "p1", "title": "Stale Tee", "price": "799", "size": "S"},
			map[string]any{"productId": "p2", "price": "899"},
			map[string]any{"productId": "ghost", "price": "801"},
		},
	})
	// p1 has a canonical record under legacy field names; p2 under current ones.
	st.Seed(docstore.ColProducts, "p1", map[string]any{
		"name":     "Fresh Tee",
		"price":    "849",
		"imageUrl": "p1.png",
	})
	st.Seed(docstore.ColProducts, "p2", map[string]any{
		"title": "Hoodie",
		"price": "949",
		"image": "p2.png",
	})
	return st
}

func bundleOrder() orders.Order {
	return orders.Order{
		ID:     "o1",
		Amount: 1799,
		Items: []orders.LineItem{
			orders.SimpleItem{ProductID: "solo", Title: "Cap", Quantity: 1, Price: "299"},
			orders.BundleItem{
				SimpleItem:              orders.SimpleItem{ProductID: "combo", Title: "old name", Quantity: 1, Price: "1899"},
				BundleID:                "b1",
				BundleName:              "old name",
				BundlePrice:             "1899",
				OriginalIndividualPrice: "2399",
				ProductSizes:            map[string]string{"p1": "L"},
			},
		},
	}
}

func TestEnrich_ResolvesBundle(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	out := p.Enrich(context.Background(), bundleOrder())

	require.Len(t, out.Items, 2)
	simple, ok := out.Items[0].(orders.SimpleItem)
	require.True(t, ok)
	assert.Equal(t, "Cap", simple.Title, "simple items pass through unchanged")

	b, ok := out.Items[1].(orders.BundleItem)
	require.True(t, ok)
	assert.Equal(t, "Summer Combo", b.BundleName, "bundle document name wins")
	assert.Equal(t, "1799", b.BundlePrice)
	assert.Equal(t, "2499", b.OriginalIndividualPrice)
	assert.Equal(t, 700.0, b.Savings())

	require.Len(t, b.Products, 3)
	assert.Equal(t, "Fresh Tee", b.Products[0].Title, "canonical title wins over nominal")
	assert.Equal(t, "849", b.Products[0].Price)
	assert.Equal(t, "p1.png", b.Products[0].Image)
	assert.Equal(t, "L", b.Products[0].Size, "assignment map wins over embedded size")

	assert.Equal(t, "Hoodie", b.Products[1].Title)
	assert.Equal(t, "", b.Products[1].Size)

	assert.Equal(t, UnknownProductTitle, b.Products[2].Title, "unresolvable product gets the placeholder")
	assert.Equal(t, "801", b.Products[2].Price, "nominal price kept when product is absent")
}

func TestEnrich_Idempotent(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	ctx := context.Background()

	once := p.Enrich(ctx, bundleOrder())
	twice := p.Enrich(ctx, once)
	assert.Equal(t, once, twice)
}

func TestEnrich_MissingBundlePassesThrough(t *testing.T) {
	p := &Pipeline{Store: memstore.New()} // nothing resolvable
	in := bundleOrder()
	out := p.Enrich(context.Background(), in)
	assert.Equal(t, in, out, "unresolvable references leave the order as stored")
}

func TestEnrich_BundleItemWithoutIDIsInert(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	in := orders.Order{Items: []orders.LineItem{
		orders.BundleItem{SimpleItem: orders.SimpleItem{Title: "broken", Quantity: 1}},
	}}
	out := p.Enrich(context.Background(), in)
	assert.Equal(t, in, out)
}

func TestEnrich_SimpleOnlyOrderUntouched(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	in := orders.Order{
		ID:     "o2",
		Amount: 598,
		Items: []orders.LineItem{
			orders.SimpleItem{ProductID: "a", Title: "A", Quantity: 1, Price: "299"},
			orders.SimpleItem{ProductID: "b", Title: "B", Quantity: 1, Price: "299", Size: "M"},
		},
	}
	out := p.Enrich(context.Background(), in)
	assert.Equal(t, in, out)
}

func TestEnrich_DoesNotTouchMonetaryTotals(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	in := bundleOrder()
	in.Amount = 12345 // deliberately inconsistent with items
	out := p.Enrich(context.Background(), in)
	assert.Equal(t, 12345.0, out.Amount)
}
