package orders

import "time"

// Color as chosen for an item; stored either as a bare hex string or as a
// {name, hex} map depending on the client version that wrote the order.
type Color struct {
	Name string
	Hex  string
}

// BundleProduct is one product inside a bundle: either a nominal entry from
// the bundle document or the enriched record the pipeline produces.
type BundleProduct struct {
	ProductID string
	Title     string
	Price     string
	Quantity  int
	Image     string
	Size      string
}

// LineItem is either a SimpleItem or a BundleItem. Keeping the two as
// separate variants means bundle-only fields cannot be reached from simple
// items; consumers type-switch.
type LineItem interface {
	isLineItem()
}

// SimpleItem is a plain product purchase. It also carries the fields every
// line item shares, so BundleItem embeds it.
type SimpleItem struct {
	ProductID string
	Title     string
	Quantity  int
	Price     string // currency string as stored, e.g. "₹1,299"
	Size      string
	Color     *Color
	Image     string
}

func (SimpleItem) isLineItem() {}

// UnitPriceValue parses the stored price string; malformed input reads as 0.
func (it SimpleItem) UnitPriceValue() float64 {
	return PriceValue(it.Price)
}

func (it SimpleItem) TotalPrice() float64 {
	return it.UnitPriceValue() * float64(it.Quantity)
}

// BundleItem is a bundle purchase. Products starts out absent or stale on the
// stored order and is populated by the enrichment pipeline.
type BundleItem struct {
	SimpleItem

	BundleID                string
	BundleName              string
	BundlePrice             string // discounted price for the whole bundle
	OriginalIndividualPrice string // sum of the products bought separately
	ProductSizes            map[string]string
	Products                []BundleProduct
}

func (it BundleItem) UnitPriceValue() float64 {
	if it.BundlePrice != "" {
		return PriceValue(it.BundlePrice)
	}
	return PriceValue(it.Price)
}

func (it BundleItem) TotalPrice() float64 {
	return it.UnitPriceValue() * float64(it.Quantity)
}

// Savings is the per-unit discount delta scaled by quantity.
func (it BundleItem) Savings() float64 {
	return (PriceValue(it.OriginalIndividualPrice) - PriceValue(it.BundlePrice)) * float64(it.Quantity)
}

type Address struct {
	Name    string
	Street  string
	City    string
	State   string
	Pincode string
	Phone   string
}

type StatusChange struct {
	Status    Status
	Timestamp time.Time
}

// Order is the stored purchase record. Amount and TotalProducts are snapshots
// taken at checkout; enrichment never recomputes them.
type Order struct {
	ID                string
	CustomerName      string
	CustomerEmail     string
	Address           Address
	Amount            float64
	TotalProducts     int
	PaymentMode       string
	RazorpayOrderID   string
	RazorpayPaymentID string
	Status            Status
	PaymentStatus     string
	UserID            string
	CreatedAt         time.Time
	Items             []LineItem
	StatusHistory     []StatusChange
}

// HasBundleItems reports whether any line item is a bundle purchase.
func (o Order) HasBundleItems() bool {
	for _, it := range o.Items {
		if _, ok := it.(BundleItem); ok {
			return true
		}
	}
	return false
}

// Bundle is the read-only bundle document shape.
type Bundle struct {
	ID                 string
	Name               string
	Description        string
	Products           []BundleProduct
	BundlePrice        string
	OriginalTotalPrice string
	Discount           float64
	Category           string
	Image              string
}

// Product is the canonical product record, already normalized from the
// name/title and image/imageUrl variants.
type Product struct {
	ID    string
	Title string
	Price string
	Image string
}
