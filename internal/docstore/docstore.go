package docstore

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Update when the target document does not exist.
var ErrNoDocument = errors.New("docstore: no such document")

// Collection names used by this application.
const (
	ColOrders        = "orders"
	ColBundles       = "bundles"
	ColProducts      = "products"
	ColUsers         = "users"
	ColNotifications = "notifications"
)

// Doc is one document as stored: an opaque ID plus loosely-typed fields.
type Doc struct {
	ID   string
	Data map[string]any
}

// Filter narrows a query or subscription to documents whose field equals a value.
type Filter struct {
	Field  string
	Equals any
}

// Store is the narrow gateway to the document database. A Get miss is reported
// via the bool, not an error; errors are reserved for transport failures.
// Subscribe delivers the full current result set on every upstream change (each
// emission is a snapshot, not a diff) and closes the channel when ctx is done.
type Store interface {
	Get(ctx context.Context, collection, id string) (Doc, bool, error)
	Query(ctx context.Context, collection, field string, equals any) ([]Doc, error)
	Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Delete(ctx context.Context, collection, id string) error
	Subscribe(ctx context.Context, collection string, filter *Filter) (<-chan []Doc, error)
}
