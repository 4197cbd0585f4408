package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
)

// FormatReceipt renders an order as multi-line text for receipts and exports.
// It only formats what is already on the order; savings and subtotals come
// from enriched data, never from fresh resolution.
func FormatReceipt(o orders.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order #%s\n", o.ID)
	if o.CustomerEmail != "" {
		fmt.Fprintf(&b, "Customer: %s <%s>\n", o.CustomerName, o.CustomerEmail)
	} else if o.CustomerName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	}
	fmt.Fprintf(&b, "Status: %s | Payment: %s (%s)\n", o.Status, o.PaymentStatus, o.PaymentMode)
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Placed: %s\n", o.CreatedAt.Format(time.RFC1123))
	}

	b.WriteString("Items:\n")
	for _, it := range o.Items {
		switch t := it.(type) {
		case orders.BundleItem:
			name := t.BundleName
			if name == "" {
				name = t.Title
			}
			fmt.Fprintf(&b, "  %s (bundle) x%d  %.2f\n", name, t.Quantity, t.TotalPrice())
			if t.OriginalIndividualPrice != "" {
				fmt.Fprintf(&b, "    original %.2f, you save %.2f\n",
					orders.PriceValue(t.OriginalIndividualPrice)*float64(t.Quantity), t.Savings())
			}
			for _, p := range t.Products {
				if p.Size != "" {
					fmt.Fprintf(&b, "    - %s (size %s)\n", p.Title, p.Size)
				} else {
					fmt.Fprintf(&b, "    - %s\n", p.Title)
				}
			}
		case orders.SimpleItem:
			line := fmt.Sprintf("  %s x%d  %.2f", t.Title, t.Quantity, t.TotalPrice())
			if t.Size != "" {
				line += fmt.Sprintf(" (size %s)", t.Size)
			}
			b.WriteString(line + "\n")
		}
	}

	fmt.Fprintf(&b, "Total: %.2f (%d items)\n", o.Amount, o.TotalProducts)
	return b.String()
}
