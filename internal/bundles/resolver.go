// Package bundles resolves bundle and product references for a single
// enrichment pass. A store miss or read error is reported as absent, never as
// an error: callers always have a defined fallback.
package bundles

import (
	"context"
	"sync"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

type bundleEntry struct {
	bundle orders.Bundle
	ok     bool
}

type productEntry struct {
	product orders.Product
	ok      bool
}

// Resolver memoizes lookups for the lifetime of one pass only. Create a fresh
// one per enrichment call so live snapshots never see stale documents.
type Resolver struct {
	store docstore.Store

	mu       sync.Mutex
	bundles  map[string]bundleEntry
	products map[string]productEntry
}

func NewResolver(store docstore.Store) *Resolver {
	return &Resolver{
		store:    store,
		bundles:  make(map[string]bundleEntry),
		products: make(map[string]productEntry),
	}
}

// BundleDetails returns the bundle or absent. Safe for concurrent use.
func (r *Resolver) BundleDetails(ctx context.Context, bundleID string) (orders.Bundle, bool) {
	if bundleID == "" {
		return orders.Bundle{}, false
	}
	r.mu.Lock()
	if e, hit := r.bundles[bundleID]; hit {
		r.mu.Unlock()
		return e.bundle, e.ok
	}
	r.mu.Unlock()

	doc, ok, err := r.store.Get(ctx, docstore.ColBundles, bundleID)
	e := bundleEntry{}
	if err == nil && ok {
		e = bundleEntry{bundle: orders.DecodeBundle(doc), ok: true}
	}

	r.mu.Lock()
	r.bundles[bundleID] = e
	r.mu.Unlock()
	return e.bundle, e.ok
}

// BundleProducts returns the bundle's nominal product list, empty when the
// bundle is absent.
func (r *Resolver) BundleProducts(ctx context.Context, bundleID string) []orders.BundleProduct {
	b, ok := r.BundleDetails(ctx, bundleID)
	if !ok {
		return nil
	}
	return b.Products
}

// ProductDetails returns the canonical product record or absent.
func (r *Resolver) ProductDetails(ctx context.Context, productID string) (orders.Product, bool) {
	if productID == "" {
		return orders.Product{}, false
	}
	r.mu.Lock()
	if e, hit := r.products[productID]; hit {
		r.mu.Unlock()
		return e.product, e.ok
	}
	r.mu.Unlock()

	doc, ok, err := r.store.Get(ctx, docstore.ColProducts, productID)
	e := productEntry{}
	if err == nil && ok {
		e = productEntry{product: orders.DecodeProduct(doc), ok: true}
	}

	r.mu.Lock()
	r.products[productID] = e
	r.mu.Unlock()
	return e.product, e.ok
}
