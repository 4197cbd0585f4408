package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceValue(t *testing.T) {
	assert.Equal(t, 1234.56, PriceValue("₹1,234.56"))
	assert.Equal(t, 1799.0, PriceValue("1799"))
	assert.Equal(t, 0.0, PriceValue("abc"))
	assert.Equal(t, 0.0, PriceValue(""))
	assert.Equal(t, 99.5, PriceValue("Rs. 99.50"))
}

func TestSimpleItemTotals(t *testing.T) {
	it := SimpleItem{Price: "₹250", Quantity: 3}
	assert.Equal(t, 250.0, it.UnitPriceValue())
	assert.Equal(t, 750.0, it.TotalPrice())
}

func TestBundleItemSavings(t *testing.T) {
	it := BundleItem{
		SimpleItem:              SimpleItem{Quantity: 1},
		BundlePrice:             "1799",
		OriginalIndividualPrice: "2499",
	}
	assert.Equal(t, 700.0, it.Savings())

	it.Quantity = 2
	assert.Equal(t, 1400.0, it.Savings(), "savings scale with quantity")
}

func TestBundleItemTotalUsesBundlePrice(t *testing.T) {
	it := BundleItem{
		SimpleItem:  SimpleItem{Price: "2499", Quantity: 2},
		BundlePrice: "1799",
	}
	assert.Equal(t, 3598.0, it.TotalPrice())
}

func TestBundleItemTotalFallsBackToItemPrice(t *testing.T) {
	it := BundleItem{SimpleItem: SimpleItem{Price: "2499", Quantity: 1}}
	assert.Equal(t, 2499.0, it.TotalPrice())
}
