package orders

import (
	"time"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

// All tolerance for legacy field naming lives here: orders were written by
// several app versions, so productId/id, title/name, image/imageUrl,
// isCombo/isBundleItem and string-vs-map colors all occur in stored data.
// Decoding fails soft to zero values, never errors.

func DecodeOrder(doc docstore.Doc) Order {
	m := doc.Data
	o := Order{
		ID:                doc.ID,
		CustomerName:      docstore.Str(m, "customerName", "name"),
		CustomerEmail:     docstore.Str(m, "customerEmail", "userEmail"),
		Address:           decodeAddress(docstore.Map(m, "address")),
		Amount:            docstore.Num(m, "amount", "totalPrice"),
		TotalProducts:     docstore.Int(m, "totalProducts"),
		PaymentMode:       docstore.Str(m, "paymentMode"),
		RazorpayOrderID:   docstore.Str(m, "razorpayOrderId"),
		RazorpayPaymentID: docstore.Str(m, "razorpayPaymentId"),
		Status:            Status(docstore.Str(m, "status")),
		PaymentStatus:     docstore.Str(m, "paymentStatus"),
		UserID:            docstore.Str(m, "userId"),
		CreatedAt:         docstore.Time(m, "createdAt"),
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	for _, raw := range docstore.Slice(m, "items") {
		im, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		o.Items = append(o.Items, DecodeLineItem(im))
	}
	for _, raw := range docstore.Slice(m, "statusHistory") {
		hm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		o.StatusHistory = append(o.StatusHistory, StatusChange{
			Status:    Status(docstore.Str(hm, "status")),
			Timestamp: docstore.Time(hm, "timestamp"),
		})
	}
	return o
}

func DecodeLineItem(m map[string]any) LineItem {
	base := SimpleItem{
		ProductID: docstore.Str(m, "productId", "id"),
		Title:     docstore.Str(m, "title", "name"),
		Quantity:  quantity(m),
		Price:     docstore.Str(m, "price"),
		Size:      docstore.Str(m, "size"),
		Color:     decodeColor(m["color"]),
		Image:     docstore.Str(m, "image", "imageUrl"),
	}
	if !docstore.Bool(m, "isBundleItem", "isCombo") {
		return base
	}
	return BundleItem{
		SimpleItem:              base,
		BundleID:                docstore.Str(m, "bundleId"),
		BundleName:              docstore.Str(m, "bundleName"),
		BundlePrice:             docstore.Str(m, "bundlePrice"),
		OriginalIndividualPrice: docstore.Str(m, "originalIndividualPrice"),
		ProductSizes:            docstore.StrMap(m, "bundleProductSizes"),
		Products:                decodeBundleProducts(docstore.Slice(m, "bundleProducts")),
	}
}

func DecodeBundle(doc docstore.Doc) Bundle {
	m := doc.Data
	return Bundle{
		ID:                 doc.ID,
		Name:               docstore.Str(m, "name", "title"),
		Description:        docstore.Str(m, "description"),
		Products:           decodeBundleProducts(docstore.Slice(m, "products")),
		BundlePrice:        docstore.Str(m, "bundlePrice"),
		OriginalTotalPrice: docstore.Str(m, "originalTotalPrice"),
		Discount:           docstore.Num(m, "discount"),
		Category:           docstore.Str(m, "category"),
		Image:              docstore.Str(m, "image", "imageUrl"),
	}
}

func DecodeProduct(doc docstore.Doc) Product {
	m := doc.Data
	return Product{
		ID:    doc.ID,
		Title: docstore.Str(m, "name", "title"),
		Price: docstore.Str(m, "price"),
		Image: docstore.Str(m, "image", "imageUrl"),
	}
}

func decodeBundleProducts(raw []any) []BundleProduct {
	var out []BundleProduct
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, BundleProduct{
			ProductID: docstore.Str(m, "productId", "id"),
			Title:     docstore.Str(m, "title", "name"),
			Price:     docstore.Str(m, "price"),
			Quantity:  quantity(m),
			Image:     docstore.Str(m, "image", "imageUrl"),
			Size:      docstore.Str(m, "size"),
		})
	}
	return out
}

func decodeAddress(m map[string]any) Address {
	if m == nil {
		return Address{}
	}
	return Address{
		Name:    docstore.Str(m, "name"),
		Street:  docstore.Str(m, "street", "addressLine"),
		City:    docstore.Str(m, "city"),
		State:   docstore.Str(m, "state"),
		Pincode: docstore.Str(m, "pincode", "zip"),
		Phone:   docstore.Str(m, "phone"),
	}
}

func decodeColor(v any) *Color {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return &Color{Hex: t}
	case map[string]any:
		return &Color{Name: docstore.Str(t, "name"), Hex: docstore.Str(t, "hex")}
	default:
		return nil
	}
}

func quantity(m map[string]any) int {
	if q := docstore.Int(m, "quantity"); q > 0 {
		return q
	}
	return 1
}

// EncodeOrder writes the canonical key set. Legacy alternates are read-side
// tolerance only; everything this service writes uses one spelling.
func EncodeOrder(o Order) map[string]any {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, EncodeLineItem(it))
	}
	history := make([]any, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, EncodeStatusChange(h))
	}
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return map[string]any{
		"customerName":      o.CustomerName,
		"customerEmail":     o.CustomerEmail,
		"address":           encodeAddress(o.Address),
		"amount":            o.Amount,
		"totalProducts":     o.TotalProducts,
		"paymentMode":       o.PaymentMode,
		"razorpayOrderId":   o.RazorpayOrderID,
		"razorpayPaymentId": o.RazorpayPaymentID,
		"status":            string(o.Status),
		"paymentStatus":     o.PaymentStatus,
		"userId":            o.UserID,
		"createdAt":         createdAt.Format(time.RFC3339),
		"items":             items,
		"statusHistory":     history,
	}
}

func EncodeLineItem(it LineItem) map[string]any {
	switch t := it.(type) {
	case SimpleItem:
		return encodeSimple(t, false)
	case BundleItem:
		m := encodeSimple(t.SimpleItem, true)
		m["bundleId"] = t.BundleID
		m["bundleName"] = t.BundleName
		m["bundlePrice"] = t.BundlePrice
		m["originalIndividualPrice"] = t.OriginalIndividualPrice
		if t.ProductSizes != nil {
			sizes := make(map[string]any, len(t.ProductSizes))
			for k, v := range t.ProductSizes {
				sizes[k] = v
			}
			m["bundleProductSizes"] = sizes
		}
		if t.Products != nil {
			products := make([]any, 0, len(t.Products))
			for _, p := range t.Products {
				products = append(products, map[string]any{
					"productId": p.ProductID,
					"title":     p.Title,
					"price":     p.Price,
					"quantity":  p.Quantity,
					"image":     p.Image,
					"size":      p.Size,
				})
			}
			m["bundleProducts"] = products
		}
		return m
	default:
		return map[string]any{}
	}
}

func EncodeStatusChange(h StatusChange) map[string]any {
	return map[string]any{
		"status":    string(h.Status),
		"timestamp": h.Timestamp.Format(time.RFC3339),
	}
}

func encodeSimple(it SimpleItem, bundle bool) map[string]any {
	m := map[string]any{
		"productId":    it.ProductID,
		"title":        it.Title,
		"quantity":     it.Quantity,
		"price":        it.Price,
		"size":         it.Size,
		"image":        it.Image,
		"isBundleItem": bundle,
	}
	if it.Color != nil {
		m["color"] = map[string]any{"name": it.Color.Name, "hex": it.Color.Hex}
	}
	return m
}

func encodeAddress(a Address) map[string]any {
	return map[string]any{
		"name":    a.Name,
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"pincode": a.Pincode,
		"phone":   a.Phone,
	}
}
