// Package enrich turns a stored order into a display-ready one by resolving
// its bundle and product references. Every resolution step has a defined
// fallback, so a consumer can render the result even when every
// cross-reference fails to resolve.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/bundles"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

// UnknownProductTitle is shown when neither the product store nor the
// bundle's nominal entry carries a title.
const UnknownProductTitle = "Unknown Product"

type Pipeline struct {
	Store docstore.Store
}

// Enrich is total: it never returns an error and at worst hands back the
// input unchanged. It is idempotent because resolution is re-derived from
// source IDs on every call; a fresh resolver pass means nothing is cached
// across calls. Only bundle line items are touched, and item order is kept.
func (p *Pipeline) Enrich(ctx context.Context, o orders.Order) (out orders.Order) {
	out = o
	// Enrichment is display-only; a panic anywhere in it must not take down
	// an order read.
	defer func() {
		if recover() != nil {
			out = o
		}
	}()

	if !o.HasBundleItems() {
		return o
	}

	r := bundles.NewResolver(p.Store)
	p.prefetch(ctx, r, o)

	items := make([]orders.LineItem, len(o.Items))
	for i, it := range o.Items {
		if b, ok := it.(orders.BundleItem); ok {
			items[i] = p.enrichBundleItem(ctx, r, b)
		} else {
			items[i] = it
		}
	}

	enriched := o
	enriched.Items = items
	return enriched
}

// prefetch warms the resolver for all distinct bundle IDs concurrently. The
// lookups are pure reads, so there is no ordering requirement between them.
func (p *Pipeline) prefetch(ctx context.Context, r *bundles.Resolver, o orders.Order) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range DistinctBundleIDs(o) {
		id := id
		g.Go(func() error {
			r.BundleDetails(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) enrichBundleItem(ctx context.Context, r *bundles.Resolver, it orders.BundleItem) orders.LineItem {
	// No bundle ID: malformed but inert, keep as stored.
	if it.BundleID == "" {
		return it
	}
	b, ok := r.BundleDetails(ctx, it.BundleID)
	if !ok {
		// Bundle deleted or unavailable: keep whatever was denormalized onto
		// the order at creation time.
		return it
	}

	resolved := make([]orders.BundleProduct, 0, len(b.Products))
	for _, nominal := range b.Products {
		rec := nominal
		if prod, found := r.ProductDetails(ctx, nominal.ProductID); found {
			// Canonical record wins over the bundle's nominal entry.
			if prod.Title != "" {
				rec.Title = prod.Title
			}
			if prod.Price != "" {
				rec.Price = prod.Price
			}
			if prod.Image != "" {
				rec.Image = prod.Image
			}
		}
		if rec.Title == "" {
			rec.Title = UnknownProductTitle
		}
		resolved = append(resolved, rec)
	}

	out := it
	out.Products = ReconcileSizes(it.ProductSizes, resolved)
	if b.Name != "" {
		out.BundleName = b.Name
	}
	if b.BundlePrice != "" {
		out.BundlePrice = b.BundlePrice
	}
	if b.OriginalTotalPrice != "" {
		out.OriginalIndividualPrice = b.OriginalTotalPrice
	}
	return out
}
