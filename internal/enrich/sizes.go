package enrich

import "github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"

// ReconcileSizes attaches the effective per-order size to each nominal bundle
// product. The order's size-assignment map wins, then the nominal entry's own
// embedded size; no size anywhere means "", which is a valid displayable
// state, not an error. Quantity defaults to 1 when the entry omits it.
func ReconcileSizes(assigned map[string]string, nominal []orders.BundleProduct) []orders.BundleProduct {
	out := make([]orders.BundleProduct, len(nominal))
	for i, p := range nominal {
		if p.Quantity <= 0 {
			p.Quantity = 1
		}
		if s, ok := assigned[p.ProductID]; ok && s != "" {
			p.Size = s
		}
		out[i] = p
	}
	return out
}
