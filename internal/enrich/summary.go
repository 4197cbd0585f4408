package enrich

import (
	"context"
	"sort"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/bundles"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

// DistinctBundleIDs lists the bundle IDs referenced by the order's bundle
// items, deduplicated, in first-appearance order.
func DistinctBundleIDs(o orders.Order) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range o.Items {
		b, ok := it.(orders.BundleItem)
		if !ok || b.BundleID == "" || seen[b.BundleID] {
			continue
		}
		seen[b.BundleID] = true
		out = append(out, b.BundleID)
	}
	return out
}

type BundleSummary struct {
	BundleID           string                 `json:"bundleId"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	BundlePrice        string                 `json:"bundlePrice"`
	OriginalTotalPrice string                 `json:"originalTotalPrice"`
	Discount           float64                `json:"discount"`
	ItemCount          int                    `json:"itemCount"`
	Items              []orders.BundleProduct `json:"items"`
	Category           string                 `json:"category"`
}

// BundleSummaries builds one summary per distinct bundle the order references,
// re-resolving bundle details. A bundle that fails to resolve is omitted, not
// represented as an error entry.
func (p *Pipeline) BundleSummaries(ctx context.Context, o orders.Order) []BundleSummary {
	r := bundles.NewResolver(p.Store)
	var out []BundleSummary
	for _, id := range DistinctBundleIDs(o) {
		b, ok := r.BundleDetails(ctx, id)
		if !ok {
			continue
		}
		out = append(out, BundleSummary{
			BundleID:           id,
			Name:               b.Name,
			Description:        b.Description,
			BundlePrice:        b.BundlePrice,
			OriginalTotalPrice: b.OriginalTotalPrice,
			Discount:           b.Discount,
			ItemCount:          len(b.Products),
			Items:              b.Products,
			Category:           b.Category,
		})
	}
	return out
}

type ProductSize struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Size      string `json:"size"`
}

type BundleSizeInfo struct {
	BundleID   string        `json:"bundleId"`
	BundleName string        `json:"bundleName"`
	Sizes      []ProductSize `json:"sizes"`
}

type ItemSizeInfo struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type SizesOverview struct {
	BundleItems          []BundleSizeInfo `json:"bundleItems"`
	RegularItems         []ItemSizeInfo   `json:"regularItems"`
	HasBundles           bool             `json:"hasBundles"`
	HasRegularSizedItems bool             `json:"hasRegularSizedItems"`
}

// Overview partitions an already-enriched order's line items into bundle-
// derived and simple-item size information for unified display. It performs
// no resolution itself.
func Overview(o orders.Order) SizesOverview {
	var ov SizesOverview
	for _, it := range o.Items {
		switch t := it.(type) {
		case orders.BundleItem:
			ov.HasBundles = true
			info := BundleSizeInfo{BundleID: t.BundleID, BundleName: t.BundleName}
			if len(t.Products) > 0 {
				for _, p := range t.Products {
					info.Sizes = append(info.Sizes, ProductSize{ProductID: p.ProductID, Title: p.Title, Size: p.Size})
				}
			} else {
				// Unenriched item: the assignment map is all we have.
				for pid, size := range t.ProductSizes {
					info.Sizes = append(info.Sizes, ProductSize{ProductID: pid, Size: size})
				}
				sort.Slice(info.Sizes, func(i, j int) bool { return info.Sizes[i].ProductID < info.Sizes[j].ProductID })
			}
			ov.BundleItems = append(ov.BundleItems, info)
		case orders.SimpleItem:
			if t.Size != "" {
				ov.HasRegularSizedItems = true
			}
			ov.RegularItems = append(ov.RegularItems, ItemSizeInfo{
				ProductID: t.ProductID,
				Title:     t.Title,
				Size:      t.Size,
				Quantity:  t.Quantity,
			})
		}
	}
	return ov
}
