package screen

import (
	"context"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
)

const (
	PageSizeProducts      = 10
	PageSizeIngredients   = 7
	PageSizeWaiters       = 7
	PageSizePayments      = 10
	PageSizeServingTables = 7
	PageSizeKitchen       = 10
)

// Source is satisfied by *gateway.Client.
type Source interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchIngredients(ctx context.Context) ([]model.Ingredient, error)
	FetchWaitersForAdminPage(ctx context.Context) ([]model.Waiter, error)
	FetchPayments(ctx context.Context) ([]model.Payment, error)
	FetchServingTables(ctx context.Context) ([]model.ServingTable, error)
	FetchUncompletedKitchenOrders(ctx context.Context) ([]model.KitchenOrder, error)
}

// Screens bundles the list screens of one operator.
type Screens struct {
	Products      *Collection[model.Product]
	Ingredients   *Collection[model.Ingredient]
	Waiters       *Collection[model.Waiter]
	Payments      *Collection[model.Payment]
	ServingTables *Collection[model.ServingTable]
	Kitchen       *Collection[model.KitchenOrder]
}

// New wires every list screen to src. lang picks which product and ingredient name
// the filter looks at.
func New(src Source, lang string) *Screens {
	s := &Screens{
		Products: NewCollection(src.FetchProducts, func(p model.Product, q string) bool {
			return Contains(p.DisplayName(lang), q)
		}, PageSizeProducts),
		Ingredients: NewCollection(src.FetchIngredients, func(i model.Ingredient, q string) bool {
			return Contains(i.DisplayName(lang), q)
		}, PageSizeIngredients),
		Waiters: NewCollection(src.FetchWaitersForAdminPage, func(w model.Waiter, q string) bool {
			return Contains(w.FullName(), q)
		}, PageSizeWaiters),
		Payments: NewCollection(src.FetchPayments, func(p model.Payment, q string) bool {
			return Contains(p.PayerName(), q)
		}, PageSizePayments),
		ServingTables: NewCollection(src.FetchServingTables, func(t model.ServingTable, q string) bool {
			return t.Waiter != nil && Contains(t.Waiter.FirstName, q)
		}, PageSizeServingTables),
		Kitchen: NewCollection(src.FetchUncompletedKitchenOrders, func(k model.KitchenOrder, q string) bool {
			return Contains(k.WaiterName(), q)
		}, PageSizeKitchen),
	}
	s.ServingTables.SetScope(TableStatus(enum.TableStatusReserved))
	return s
}

// TableStatus scopes serving tables to one status.
func TableStatus(status string) func(model.ServingTable) bool {
	return func(t model.ServingTable) bool { return t.ServingTableStatus == status }
}
