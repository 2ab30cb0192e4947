package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
)

// AdminBackend defines the backend calls of the administration page.
// Satisfied by *gateway.Client.
type AdminBackend interface {
	CreateProduct(ctx context.Context, p model.Product) (string, error)
	UpdateProduct(ctx context.Context, p model.Product) (string, error)
	DeleteProduct(ctx context.Context, productUUID string) (string, error)
	CreateIngredient(ctx context.Context, i model.Ingredient) (string, error)
	UpdateIngredient(ctx context.Context, i model.Ingredient) (string, error)
	DeleteIngredient(ctx context.Context, ingredientUUID string) (string, error)
	CreateWaiter(ctx context.Context, w model.Waiter) (string, error)
	UpdateWaiter(ctx context.Context, w model.UpdateWaiterDTO) (string, error)
	DeleteWaiter(ctx context.Context, waiterUUID string) (string, error)
	UpdateServingTable(ctx context.Context, dto model.UpdateServingTableDTO) (string, error)
	CloseServingTable(ctx context.Context, tableUUID string) (string, error)
	DeleteServingTable(ctx context.Context, tableUUID string) (string, error)
	DeleteOrderFromServingTable(ctx context.Context, orderUUID string) (string, error)
	DeleteProductFromOrder(ctx context.Context, dto model.DeleteProductFromOrderDTO) (string, error)
}

// AdminService runs the administration page mutations. Every success shows the
// backend's message and marks the affected list for reload.
type AdminService struct {
	backend  AdminBackend
	screens  *screen.Screens
	notifier notify.Notifier
	events   Events
}

func NewAdminService(backend AdminBackend, screens *screen.Screens, notifier notify.Notifier, events Events) *AdminService {
	return &AdminService{backend: backend, screens: screens, notifier: notifier, events: events}
}

// --- Products ---

func (s *AdminService) CreateProduct(ctx context.Context, p model.Product) (string, error) {
	if err := validateProduct(p); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "create product", s.screens.Products.Reload)(s.backend.CreateProduct(ctx, p))
}

func (s *AdminService) UpdateProduct(ctx context.Context, p model.Product) (string, error) {
	if err := validateProduct(p); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "update product", s.screens.Products.Reload)(s.backend.UpdateProduct(ctx, p))
}

func (s *AdminService) DeleteProduct(ctx context.Context, productUUID string) (string, error) {
	return s.done(ctx, "delete product", s.screens.Products.Reload)(s.backend.DeleteProduct(ctx, productUUID))
}

// --- Ingredients ---

func (s *AdminService) CreateIngredient(ctx context.Context, i model.Ingredient) (string, error) {
	if err := validateIngredient(i); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "create ingredient", s.screens.Ingredients.Reload)(s.backend.CreateIngredient(ctx, i))
}

func (s *AdminService) UpdateIngredient(ctx context.Context, i model.Ingredient) (string, error) {
	if err := validateIngredient(i); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "update ingredient", s.screens.Ingredients.Reload)(s.backend.UpdateIngredient(ctx, i))
}

func (s *AdminService) DeleteIngredient(ctx context.Context, ingredientUUID string) (string, error) {
	return s.done(ctx, "delete ingredient", s.screens.Ingredients.Reload)(s.backend.DeleteIngredient(ctx, ingredientUUID))
}

// --- Waiters ---

func (s *AdminService) CreateWaiter(ctx context.Context, w model.Waiter) (string, error) {
	if err := validateWaiter(w.Code, w.FirstName, w.LastName); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "create waiter", s.screens.Waiters.Reload)(s.backend.CreateWaiter(ctx, w))
}

func (s *AdminService) UpdateWaiter(ctx context.Context, w model.UpdateWaiterDTO) (string, error) {
	if err := validateWaiter(w.Code, w.FirstName, w.LastName); err != nil {
		return "", reject(ctx, s.notifier, err)
	}
	return s.done(ctx, "update waiter", s.screens.Waiters.Reload)(s.backend.UpdateWaiter(ctx, w))
}

func (s *AdminService) DeleteWaiter(ctx context.Context, waiterUUID string) (string, error) {
	return s.done(ctx, "delete waiter", s.screens.Waiters.Reload)(s.backend.DeleteWaiter(ctx, waiterUUID))
}

// --- Serving tables ---

// ServingTable finds a table in the serving tables list, loading it when needed.
func (s *AdminService) ServingTable(ctx context.Context, tableUUID string) (model.ServingTable, error) {
	return s.findServingTable(ctx, tableUUID, s.screens.ServingTables.Ensure)
}

func (s *AdminService) findServingTable(ctx context.Context, tableUUID string, load func(context.Context) error) (model.ServingTable, error) {
	if err := load(ctx); err != nil {
		return model.ServingTable{}, fmt.Errorf("load serving tables: %w", err)
	}
	for _, t := range s.screens.ServingTables.All() {
		if t.UUID == tableUUID {
			return t, nil
		}
	}
	return model.ServingTable{}, ErrTableNotFound
}

func (s *AdminService) UpdateServingTable(ctx context.Context, dto model.UpdateServingTableDTO) (string, error) {
	if dto.Code <= 0 || strings.TrimSpace(dto.WaiterUUID) == "" {
		return "", reject(ctx, s.notifier, fmt.Errorf("%w: table code and waiter are required", ErrValidation))
	}
	return s.done(ctx, "update serving table", s.screens.ServingTables.Reload)(s.backend.UpdateServingTable(ctx, dto))
}

func (s *AdminService) CloseServingTable(ctx context.Context, tableUUID string) (string, error) {
	return s.done(ctx, "close serving table", s.screens.ServingTables.Reload)(s.backend.CloseServingTable(ctx, tableUUID))
}

func (s *AdminService) DeleteServingTable(ctx context.Context, tableUUID string) (string, error) {
	msg, err := s.done(ctx, "delete serving table", s.screens.ServingTables.Reload)(s.backend.DeleteServingTable(ctx, tableUUID))
	if err == nil {
		s.screens.Kitchen.Reload()
		kitchenChanged(ctx, s.events)
	}
	return msg, err
}

// DeleteOrder removes an order from a table. Orders of CLOSED tables are read-only.
func (s *AdminService) DeleteOrder(ctx context.Context, tableUUID, orderUUID string) (string, error) {
	if _, err := s.editableOrder(ctx, tableUUID, orderUUID); err != nil {
		return "", err
	}
	msg, err := s.done(ctx, "delete order", s.screens.ServingTables.Reload)(s.backend.DeleteOrderFromServingTable(ctx, orderUUID))
	if err == nil {
		s.screens.Kitchen.Reload()
		kitchenChanged(ctx, s.events)
	}
	return msg, err
}

// DeleteOrderLine removes one product line from an order of a table.
func (s *AdminService) DeleteOrderLine(ctx context.Context, tableUUID, orderUUID, lineUUID string) (string, error) {
	order, err := s.editableOrder(ctx, tableUUID, orderUUID)
	if err != nil {
		return "", err
	}
	found := false
	for _, line := range order.ListOfOrderProducts {
		if line.UUID == lineUUID {
			found = true
			break
		}
	}
	if !found {
		return "", reject(ctx, s.notifier, fmt.Errorf("%w: product line %s", ErrOrderNotFound, lineUUID))
	}

	msg, err := s.done(ctx, "delete order line", s.screens.ServingTables.Reload)(s.backend.DeleteProductFromOrder(ctx, model.DeleteProductFromOrderDTO{
		OrderUUID:        orderUUID,
		OrderProductUUID: lineUUID,
	}))
	if err == nil {
		s.screens.Kitchen.Reload()
		kitchenChanged(ctx, s.events)
	}
	return msg, err
}

// editableOrder re-fetches the tables first: another session may have closed the
// table since the list was loaded.
func (s *AdminService) editableOrder(ctx context.Context, tableUUID, orderUUID string) (model.Order, error) {
	table, err := s.findServingTable(ctx, tableUUID, s.screens.ServingTables.Load)
	if err != nil {
		return model.Order{}, reject(ctx, s.notifier, err)
	}
	if table.ServingTableStatus == enum.TableStatusClosed {
		return model.Order{}, reject(ctx, s.notifier, ErrTableClosed)
	}
	for _, o := range table.ListOfOrders {
		if o.UUID == orderUUID {
			return o, nil
		}
	}
	return model.Order{}, reject(ctx, s.notifier, ErrOrderNotFound)
}

// done finishes a mutation: on success it shows the backend message and marks the
// list for reload.
func (s *AdminService) done(ctx context.Context, what string, reload func()) func(string, error) (string, error) {
	return func(msg string, err error) (string, error) {
		if err != nil {
			return "", fmt.Errorf("%s: %w", what, err)
		}
		notify.Success(ctx, s.notifier, msg)
		reload()
		return msg, nil
	}
}

func validateProduct(p model.Product) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.NameTranslated) == "" {
		missing = append(missing, "translated name")
	}
	if !p.Price.IsPositive() {
		missing = append(missing, "price")
	}
	if !enum.IsValidCategory(p.ProductCategory) {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: product %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func validateIngredient(i model.Ingredient) error {
	if strings.TrimSpace(i.Name) == "" || strings.TrimSpace(i.NameTranslated) == "" {
		return fmt.Errorf("%w: ingredient name and translated name are required", ErrValidation)
	}
	return nil
}

func validateWaiter(code int, firstName, lastName string) error {
	if code <= 0 || strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: waiter code, first and last name are required", ErrValidation)
	}
	return nil
}
