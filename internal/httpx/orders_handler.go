package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/docstore"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/enrich"
	kafkax "github.com/VigneshSivaKspm/coga-order-management-sub000/internal/kafka"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/orders"
	"github.com/VigneshSivaKspm/coga-order-management-sub000/internal/redisx"
)

type OrdersHandler struct {
	Repo           *orders.Repo
	Pipeline       *enrich.Pipeline
	ProducerCreate *kafkax.Producer
	ProducerStatus *kafkax.Producer
	ProducerPay    *kafkax.Producer
	Redis          *redis.Client
	Service        string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/status", h.getOrderStatus)
	r.Get("/orders/{id}/receipt", h.getReceipt)
	r.Get("/orders/{id}/summaries", h.getBundleSummaries)
	r.Get("/orders/{id}/sizes", h.getSizesOverview)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Patch("/orders/{id}/payment", h.updatePayment)
	r.Delete("/orders/{id}", h.deleteOrder)
	r.Get("/users/{id}/orders", h.listUserOrders)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// orderView is the API shape of an (enriched) order: the canonical document
// fields plus the ID.
func orderView(o orders.Order) map[string]any {
	m := orders.EncodeOrder(o)
	m["id"] = o.ID
	return m
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	o := orders.DecodeOrder(docstore.Doc{Data: body})
	if len(o.Items) == 0 || o.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.Repo.Create(ctx, o)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, id)
	_ = h.Redis.Set(ctx, statusKey, `{"status":"pending"}`, redisx.TTLStatusCache).Err()

	h.publish(h.ProducerCreate, orders.EventOrderCreated, id, r.Header.Get("X-Request-Id"),
		orders.OrderCreatedPayload{
			OrderID:       id,
			UserID:        o.UserID,
			Amount:        o.Amount,
			TotalProducts: o.TotalProducts,
			PaymentMode:   o.PaymentMode,
		})

	writeJSON(w, http.StatusCreated, map[string]string{"order_id": id})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.Order(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderView(h.Pipeline.Enrich(ctx, o)))
}

// getOrderStatus serves the raw status with a short-TTL Redis cache in front.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	o, err := h.Repo.Order(ctx, id)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	b, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, json.RawMessage(b))
}

func (h *OrdersHandler) getReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.Order(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(enrich.FormatReceipt(h.Pipeline.Enrich(ctx, o))))
}

func (h *OrdersHandler) getBundleSummaries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.Order(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	summaries := h.Pipeline.BundleSummaries(ctx, o)
	if summaries == nil {
		summaries = []enrich.BundleSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *OrdersHandler) getSizesOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.Order(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrich.Overview(h.Pipeline.Enrich(ctx, o)))
}

func (h *OrdersHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.OrdersByUser(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, o := range list {
		out = append(out, orderView(h.Pipeline.Enrich(ctx, o)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status orders.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, err := h.Repo.Order(ctx, id)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	o, err := h.Repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidTransition) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		h.writeOrderErr(w, err)
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	b, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()

	h.publish(h.ProducerStatus, orders.EventOrderStatusChanged, id, r.Header.Get("X-Request-Id"),
		orders.OrderStatusChangedPayload{
			OrderID: id,
			From:    before.Status,
			To:      o.Status,
			At:      time.Now().UTC(),
		})

	writeJSON(w, http.StatusOK, map[string]any{"status": o.Status})
}

func (h *OrdersHandler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
		PaymentID     string `json:"paymentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentStatus == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing paymentStatus"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.UpdatePaymentStatus(ctx, id, req.PaymentStatus, req.PaymentID); err != nil {
		h.writeOrderErr(w, err)
		return
	}

	h.publish(h.ProducerPay, orders.EventPaymentStatusChanged, id, r.Header.Get("X-Request-Id"),
		orders.PaymentStatusChangedPayload{
			OrderID:       id,
			PaymentStatus: req.PaymentStatus,
			PaymentID:     req.PaymentID,
		})

	writeJSON(w, http.StatusOK, map[string]string{"paymentStatus": req.PaymentStatus})
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) writeOrderErr(w http.ResponseWriter, err error) {
	if errors.Is(err, orders.ErrNotFound) || errors.Is(err, docstore.ErrNoDocument) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (h *OrdersHandler) publish(p *kafkax.Producer, eventType, orderID, traceID string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
