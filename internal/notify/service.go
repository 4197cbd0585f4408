// Package notify turns order lifecycle events into notification documents the
// mobile clients read from the store. Delivery itself (push) is someone
// else's job; this service only materializes the feed.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	kafkax "github.com/VigneshSivaKspm/coga-order-management-sub000/internal/kafka"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/redisx"
)

type Service struct {
	Store       docstore.Store
	Repo        *orders.Repo
	Redis       *redis.Client
	Log         *zap.Logger
	ServiceName string
}

// HandleStatusChanged is installed as the consumer handler for the status
// topic. Events are deduped by event id so redeliveries write one document.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	o, err := s.Repo.Order(ctx, p.OrderID)
	if err != nil {
		// Order may have been administratively deleted; nothing to notify.
		s.Log.Warn("order for status event not found",
			zap.String("order_id", p.OrderID), zap.Error(err))
		return nil
	}

	_, err = s.Store.Add(ctx, docstore.ColNotifications, map[string]any{
		"userId":    o.UserID,
		"orderId":   p.OrderID,
		"title":     "Order " + string(p.To),
		"body":      statusMessage(p.To, p.OrderID),
		"read":      false,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	s.Log.Info("notification written",
		zap.String("order_id", p.OrderID), zap.String("status", string(p.To)))
	return nil
}

func statusMessage(to orders.Status, orderID string) string {
	switch to {
	case orders.StatusProcessing:
		return fmt.Sprintf("Your order %s is being processed.", orderID)
	case orders.StatusShipped:
		return fmt.Sprintf("Your order %s has shipped.", orderID)
	case orders.StatusDelivered:
		return fmt.Sprintf("Your order %s was delivered.", orderID)
	case orders.StatusCancelled:
		return fmt.Sprintf("Your order %s was cancelled.", orderID)
	default:
		return fmt.Sprintf("Your order %s was updated to %s.", orderID, to)
	}
}
