package service

import (
	"context"
	"fmt"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
)

// KitchenBackend defines the backend calls of the kitchen page.
// Satisfied by *gateway.Client.
type KitchenBackend interface {
	MarkKitchenOrderAsCompleted(ctx context.Context, kitchenOrderUUID string) (string, error)
	FetchCompletedKitchenOrders(ctx context.Context, waiterUUID string) ([]model.KitchenOrder, error)
}

// KitchenService works the queue of orders waiting to be prepared.
type KitchenService struct {
	backend  KitchenBackend
	queue    *screen.Collection[model.KitchenOrder]
	notifier notify.Notifier
	events   Events
}

func NewKitchenService(backend KitchenBackend, queue *screen.Collection[model.KitchenOrder], notifier notify.Notifier, events Events) *KitchenService {
	return &KitchenService{backend: backend, queue: queue, notifier: notifier, events: events}
}

// Complete marks an order as prepared and reloads the queue right away.
func (s *KitchenService) Complete(ctx context.Context, kitchenOrderUUID string) (string, error) {
	msg, err := s.backend.MarkKitchenOrderAsCompleted(ctx, kitchenOrderUUID)
	if err != nil {
		return "", fmt.Errorf("complete kitchen order: %w", err)
	}
	notify.Success(ctx, s.notifier, msg)
	refreshLogged(ctx, "kitchen order", s.queue.Load)
	kitchenChanged(ctx, s.events)
	return msg, nil
}

// Completed lists the orders already prepared for one waiter.
func (s *KitchenService) Completed(ctx context.Context, waiterUUID string) ([]model.KitchenOrder, error) {
	orders, err := s.backend.FetchCompletedKitchenOrders(ctx, waiterUUID)
	if err != nil {
		return nil, fmt.Errorf("fetch completed kitchen orders: %w", err)
	}
	return orders, nil
}

// PrioritizedOrder is a queued order with its 1-based position in the queue.
type PrioritizedOrder struct {
	Priority int `json:"priority"`
	model.KitchenOrder
}

// Prioritize numbers the orders of a queue page.
func Prioritize(page screen.Page[model.KitchenOrder]) []PrioritizedOrder {
	out := make([]PrioritizedOrder, len(page.Items))
	for i, o := range page.Items {
		out[i] = PrioritizedOrder{Priority: page.Offset + i + 1, KitchenOrder: o}
	}
	return out
}
