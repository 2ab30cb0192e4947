package service

import (
	"context"
	"fmt"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/shopspring/decimal"
)

// OrderingBackend defines the backend calls the waiter page makes.
// Satisfied by *gateway.Client.
type OrderingBackend interface {
	CreateServingTableWithFirstOrder(ctx context.Context, dto model.CreateTableWithFirstOrderDTO) (string, error)
	UpdateServingTableWithNewOrder(ctx context.Context, dto model.SaveNewOrderToTableDTO) (string, error)
	PayServingTablePrice(ctx context.Context, dto model.PayTablePriceDTO) (string, error)
}

// Selection is the part of *store.Store the ordering flows use.
type Selection interface {
	SelectedWaiter() (model.Waiter, bool)
	SelectedServingTable() (model.ServingTable, bool)
	SelectedOrder() (model.Order, bool)
	FindProduct(uuid string) (model.Product, bool)
	AddProductToDraftOrder(product model.Product, quantity int) bool
	RefreshAfterMutation(ctx context.Context) error
}

// OrderService runs the waiter page flows: building a draft, confirming it and
// charging a table.
type OrderService struct {
	backend  OrderingBackend
	sel      Selection
	notifier notify.Notifier
	events   Events
}

func NewOrderService(backend OrderingBackend, sel Selection, notifier notify.Notifier, events Events) *OrderService {
	return &OrderService{backend: backend, sel: sel, notifier: notifier, events: events}
}

// AddProductRequest is one line the waiter wants on the draft.
type AddProductRequest struct {
	ProductUUID     string
	IngredientUUIDs []string // subset of the product's ingredients; empty keeps all
	Quantity        int
}

// AddProduct resolves the product from the catalog, keeps the chosen ingredients and
// appends the line to the draft order.
func (s *OrderService) AddProduct(ctx context.Context, req AddProductRequest) error {
	if req.Quantity < 1 || req.Quantity > maxQuantity {
		return reject(ctx, s.notifier, ErrInvalidQuantity)
	}
	product, ok := s.sel.FindProduct(req.ProductUUID)
	if !ok {
		return reject(ctx, s.notifier, ErrProductNotFound)
	}
	product.ListOfIngredients = chooseIngredients(product.ListOfIngredients, req.IngredientUUIDs)

	if !s.sel.AddProductToDraftOrder(product, req.Quantity) {
		return reject(ctx, s.notifier, ErrNoDraftOrder)
	}
	return nil
}

// ConfirmOrder sends the draft order. A FREE draft table is created together with
// its first order; a RESERVED table gets the order appended.
func (s *OrderService) ConfirmOrder(ctx context.Context) (string, error) {
	waiter, ok := s.sel.SelectedWaiter()
	if !ok {
		return "", reject(ctx, s.notifier, ErrNoWaiterSelected)
	}
	table, ok := s.sel.SelectedServingTable()
	if !ok {
		return "", reject(ctx, s.notifier, ErrNoTableSelected)
	}
	order, ok := s.sel.SelectedOrder()
	if !ok || order.UUID != "" {
		return "", reject(ctx, s.notifier, ErrNoDraftOrder)
	}
	if len(order.ListOfOrderProducts) == 0 {
		return "", reject(ctx, s.notifier, ErrEmptyOrder)
	}

	orderDTO := model.OrderDTO{Code: order.Code, ListOfOrderProducts: order.ListOfOrderProducts}

	var (
		msg string
		err error
	)
	switch {
	case table.ServingTableStatus == enum.TableStatusClosed:
		return "", reject(ctx, s.notifier, ErrTableClosed)
	case table.IsDraft() || table.ServingTableStatus == enum.TableStatusFree:
		msg, err = s.backend.CreateServingTableWithFirstOrder(ctx, model.CreateTableWithFirstOrderDTO{
			WaiterUUID:       waiter.UUID,
			ServingTableCode: table.Code,
			OrderDTO:         orderDTO,
		})
	default:
		msg, err = s.backend.UpdateServingTableWithNewOrder(ctx, model.SaveNewOrderToTableDTO{
			ServingTableUUID: table.UUID,
			WaiterUUID:       waiter.UUID,
			OrderDTO:         orderDTO,
		})
	}
	if err != nil {
		return "", fmt.Errorf("confirm order: %w", err)
	}

	notify.Success(ctx, s.notifier, msg)
	refreshLogged(ctx, "order", s.sel.RefreshAfterMutation)
	kitchenChanged(ctx, s.events)
	return msg, nil
}

// ChargeTable pays amount off the selected table's bill.
func (s *OrderService) ChargeTable(ctx context.Context, amount decimal.Decimal) (string, error) {
	waiter, ok := s.sel.SelectedWaiter()
	if !ok {
		return "", reject(ctx, s.notifier, ErrNoWaiterSelected)
	}
	table, ok := s.sel.SelectedServingTable()
	if !ok {
		return "", reject(ctx, s.notifier, ErrNoTableSelected)
	}
	if err := CheckPayment(table, amount); err != nil {
		return "", reject(ctx, s.notifier, err)
	}

	msg, err := s.backend.PayServingTablePrice(ctx, model.PayTablePriceDTO{
		ServingTableUUID: table.UUID,
		WaiterUUID:       waiter.UUID,
		AmountToPay:      amount,
	})
	if err != nil {
		return "", fmt.Errorf("charge table: %w", err)
	}

	notify.Success(ctx, s.notifier, msg)
	refreshLogged(ctx, "payment", s.sel.RefreshAfterMutation)
	return msg, nil
}

// CheckPayment validates amount against table's bill.
func CheckPayment(table model.ServingTable, amount decimal.Decimal) error {
	if table.IsDraft() || table.ServingTableStatus == enum.TableStatusFree {
		return ErrTableNotCharged
	}
	if table.ServingTableStatus == enum.TableStatusClosed || table.FullyPaid() {
		return ErrTableFullyPaid
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(table.TotalPrice) || amount.GreaterThan(table.Balance()) {
		return ErrAmountExceedsBalance
	}
	return nil
}

func chooseIngredients(all []model.Ingredient, chosen []string) []model.Ingredient {
	if len(chosen) == 0 {
		return all
	}
	keep := make(map[string]bool, len(chosen))
	for _, id := range chosen {
		keep[id] = true
	}
	out := make([]model.Ingredient, 0, len(chosen))
	for _, ing := range all {
		if keep[ing.UUID] {
			out = append(out, ing)
		}
	}
	return out
}
