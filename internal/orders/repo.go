package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrInvalidTransition means the state machine rejected the update before
	// anything was written; callers must treat it differently from a store error.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repo is the write boundary and raw read path for orders. It never enriches;
// enrichment is a separate read-time concern layered on top.
type Repo struct {
	Store docstore.Store
}

func (r *Repo) Order(ctx context.Context, id string) (Order, error) {
	doc, ok, err := r.Store.Get(ctx, docstore.ColOrders, id)
	if err != nil {
		return Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	if !ok {
		return Order{}, ErrNotFound
	}
	return DecodeOrder(doc), nil
}

func (r *Repo) OrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	docs, err := r.Store.Query(ctx, docstore.ColOrders, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("query orders for user %s: %w", userID, err)
	}
	out := make([]Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, DecodeOrder(d))
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, o Order) (string, error) {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if len(o.StatusHistory) == 0 {
		o.StatusHistory = []StatusChange{{Status: o.Status, Timestamp: o.CreatedAt}}
	}
	id, err := r.Store.Add(ctx, docstore.ColOrders, EncodeOrder(o))
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

// UpdateStatus consults the state machine first; an invalid transition is
// rejected without touching stored state. A history entry is appended with
// every committed change.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	o, err := r.Order(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !IsValidTransition(o.Status, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	now := time.Now().UTC()
	o.Status = to
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: to, Timestamp: now})

	history := make([]any, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, EncodeStatusChange(h))
	}
	err = r.Store.Update(ctx, docstore.ColOrders, id, map[string]any{
		"status":        string(to),
		"statusHistory": history,
	})
	if err != nil {
		return Order{}, fmt.Errorf("update order %s status: %w", id, err)
	}
	return o, nil
}

func (r *Repo) UpdatePaymentStatus(ctx context.Context, id, status, paymentID string) error {
	fields := map[string]any{"paymentStatus": status}
	if paymentID != "" {
		fields["razorpayPaymentId"] = paymentID
	}
	if err := r.Store.Update(ctx, docstore.ColOrders, id, fields); err != nil {
		return fmt.Errorf("update order %s payment: %w", id, err)
	}
	return nil
}

// Delete is administrative; orders are not removed in normal operation.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.Store.Delete(ctx, docstore.ColOrders, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	return nil
}

// Watch emits the order every time the orders collection changes upstream.
// Each emission is decoded fresh; the caller is responsible for re-enriching
// every snapshot it delivers onward.
func (r *Repo) Watch(ctx context.Context, id string) (<-chan Order, error) {
	snaps, err := r.Store.Subscribe(ctx, docstore.ColOrders, nil)
	if err != nil {
		return nil, fmt.Errorf("watch order %s: %w", id, err)
	}
	out := make(chan Order, 1)
	go func() {
		defer close(out)
		for docs := range snaps {
			for _, d := range docs {
				if d.ID != id {
					continue
				}
				select {
				case out <- DecodeOrder(d):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// WatchUser emits the user's full order list on every upstream change.
func (r *Repo) WatchUser(ctx context.Context, userID string) (<-chan []Order, error) {
	snaps, err := r.Store.Subscribe(ctx, docstore.ColOrders, &docstore.Filter{Field: "userId", Equals: userID})
	if err != nil {
		return nil, fmt.Errorf("watch orders for user %s: %w", userID, err)
	}
	out := make(chan []Order, 1)
	go func() {
		defer close(out)
		for docs := range snaps {
			list := make([]Order, 0, len(docs))
			for _, d := range docs {
				list = append(list, DecodeOrder(d))
			}
			select {
			case out <- list:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
