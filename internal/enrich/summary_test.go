package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

func TestDistinctBundleIDs(t *testing.T) {
	o := orders.Order{Items: []orders.LineItem{
		orders.SimpleItem{ProductID: "x"},
		orders.BundleItem{BundleID: "b1"},
		orders.BundleItem{BundleID: "b2"},
		orders.BundleItem{BundleID: "b1"}, // duplicate
		orders.BundleItem{},               // malformed, no id
	}}
	assert.Equal(t, []string{"b1", "b2"}, DistinctBundleIDs(o))
}

func TestBundleSummaries_OmitsUnresolvable(t *testing.T) {
	p := &Pipeline{Store: seededStore()}
	o := orders.Order{Items: []orders.LineItem{
		orders.BundleItem{BundleID: "b1"},
		orders.BundleItem{BundleID: "gone"},
	}}

	sums := p.BundleSummaries(context.Background(), o)
	require.Len(t, sums, 1, "the unresolvable bundle is omitted, not an error entry")
	s := sums[0]
	assert.Equal(t, "b1", s.BundleID)
	assert.Equal(t, "Summer Combo", s.Name)
	assert.Equal(t, "1799", s.BundlePrice)
	assert.Equal(t, "2499", s.OriginalTotalPrice)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, "tops", s.Category)
}

func TestOverview_Partition(t *testing.T) {
	o := orders.Order{Items: []orders.LineItem{
		orders.SimpleItem{ProductID: "a", Title: "Cap", Quantity: 1},
		orders.SimpleItem{ProductID: "b", Title: "Tee", Quantity: 2, Size: "M"},
		orders.BundleItem{
			BundleID:   "b1",
			BundleName: "Summer Combo",
			Products: []orders.BundleProduct{
				{ProductID: "p1", Title: "Fresh Tee", Size: "L"},
				{ProductID: "p2", Title: "Hoodie"},
			},
		},
	}}

	ov := Overview(o)
	assert.True(t, ov.HasBundles)
	assert.True(t, ov.HasRegularSizedItems)
	require.Len(t, ov.BundleItems, 1)
	require.Len(t, ov.RegularItems, 2)

	assert.Equal(t, "Summer Combo", ov.BundleItems[0].BundleName)
	require.Len(t, ov.BundleItems[0].Sizes, 2)
	assert.Equal(t, "L", ov.BundleItems[0].Sizes[0].Size)
	assert.Equal(t, "", ov.BundleItems[0].Sizes[1].Size)
}

func TestOverview_UnenrichedBundleFallsBackToAssignmentMap(t *testing.T) {
	o := orders.Order{Items: []orders.LineItem{
		orders.BundleItem{
			BundleID:     "b1",
			ProductSizes: map[string]string{"p2": "XL", "p1": "S"},
		},
	}}
	ov := Overview(o)
	require.Len(t, ov.BundleItems, 1)
	assert.Equal(t, []ProductSize{
		{ProductID: "p1", Size: "S"},
		{ProductID: "p2", Size: "XL"},
	}, ov.BundleItems[0].Sizes)
}

func TestOverview_NoBundles(t *testing.T) {
	ov := Overview(orders.Order{Items: []orders.LineItem{
		orders.SimpleItem{ProductID: "a", Title: "Cap", Quantity: 1},
	}})
	assert.False(t, ov.HasBundles)
	assert.False(t, ov.HasRegularSizedItems)
	assert.Empty(t, ov.BundleItems)
	require.Len(t, ov.RegularItems, 1)
}
