package screen_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientsFetcher(items *[]model.Ingredient, calls *int) screen.Fetcher[model.Ingredient] {
	return func(context.Context) ([]model.Ingredient, error) {
		*calls++
		return append([]model.Ingredient(nil), *items...), nil
	}
}

func matchName(i model.Ingredient, q string) bool { return screen.Contains(i.Name, q) }

func TestCollection_EnsureLoadsOnceUntilReload(t *testing.T) {
	items := []model.Ingredient{{UUID: "i1", Name: "Garlic"}}
	calls := 0
	c := screen.NewCollection(ingredientsFetcher(&items, &calls), matchName, 7)

	assert.True(t, c.Stale())
	require.NoError(t, c.Ensure(context.Background()))
	require.NoError(t, c.Ensure(context.Background()))
	assert.Equal(t, 1, calls)

	items = append(items, model.Ingredient{UUID: "i2", Name: "Onion"})
	c.Reload()
	require.NoError(t, c.Ensure(context.Background()))
	assert.Equal(t, 2, calls)
	assert.Len(t, c.All(), 2)
}

func TestCollection_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	items := []model.Ingredient{
		{UUID: "i1", Name: "Garlic"},
		{UUID: "i2", Name: "Red onion"},
		{UUID: "i3", Name: "Spring Onion"},
	}
	calls := 0
	c := screen.NewCollection(ingredientsFetcher(&items, &calls), matchName, 7)
	require.NoError(t, c.Load(context.Background()))

	c.SetFilter("ONION")
	got := c.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "i2", got[0].UUID)
	assert.Equal(t, "i3", got[1].UUID)

	c.SetFilter("")
	assert.Len(t, c.Items(), 3)
}

func TestCollection_FilterSurvivesReload(t *testing.T) {
	items := []model.Ingredient{{UUID: "i1", Name: "Garlic"}, {UUID: "i2", Name: "Onion"}}
	calls := 0
	c := screen.NewCollection(ingredientsFetcher(&items, &calls), matchName, 7)
	c.SetFilter("gar")
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Items(), 1)

	items = append(items, model.Ingredient{UUID: "i3", Name: "Wild garlic"})
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Items(), 2)
}

func TestCollection_Pagination(t *testing.T) {
	var items []model.Ingredient
	for i := 1; i <= 16; i++ {
		items = append(items, model.Ingredient{UUID: fmt.Sprintf("i%d", i)})
	}
	calls := 0
	c := screen.NewCollection(ingredientsFetcher(&items, &calls), matchName, screen.PageSizeIngredients)
	require.NoError(t, c.Load(context.Background()))

	first := c.Page(1)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 16, first.Total)
	assert.Len(t, first.Items, 7)
	assert.Equal(t, "i1", first.Items[0].UUID)

	last := c.Page(3)
	assert.Len(t, last.Items, 2)
	assert.Equal(t, 14, last.Offset)
	assert.Equal(t, "i15", last.Items[0].UUID)

	assert.Equal(t, 3, c.Page(99).Number, "page past the end is clamped")
	assert.Equal(t, 1, c.Page(0).Number, "page before the start is clamped")
}

func TestCollection_EmptyPage(t *testing.T) {
	var items []model.Ingredient
	calls := 0
	c := screen.NewCollection(ingredientsFetcher(&items, &calls), matchName, 7)
	require.NoError(t, c.Load(context.Background()))

	p := c.Page(1)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Pages)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

func TestCollection_FailedLoadKeepsItems(t *testing.T) {
	fail := false
	c := screen.NewCollection(func(context.Context) ([]model.Ingredient, error) {
		if fail {
			return nil, errors.New("backend down")
		}
		return []model.Ingredient{{UUID: "i1"}}, nil
	}, matchName, 7)
	require.NoError(t, c.Load(context.Background()))

	fail = true
	c.Reload()
	assert.Error(t, c.Ensure(context.Background()))
	assert.Len(t, c.All(), 1)
	assert.True(t, c.Stale(), "a failed load leaves the collection marked for reload")
	assert.False(t, c.Loading())
}

func TestCollection_SupersededLoadDropped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	call := 0

	c := screen.NewCollection(func(context.Context) ([]model.Ingredient, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return []model.Ingredient{{UUID: "stale"}}, nil
		}
		return []model.Ingredient{{UUID: "fresh"}}, nil
	}, matchName, 7)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Load(context.Background())
	}()

	<-entered
	assert.True(t, c.Loading())
	require.NoError(t, c.Load(context.Background()))
	close(release)
	wg.Wait()

	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "fresh", all[0].UUID)
}

func TestCollection_ReloadDuringLoadFetchesAgain(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	call := 0

	c := screen.NewCollection(func(context.Context) ([]model.Ingredient, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return []model.Ingredient{{UUID: "before-delete"}}, nil
		}
		return []model.Ingredient{{UUID: "after-delete"}}, nil
	}, matchName, 7)

	done := make(chan error)
	go func() { done <- c.Ensure(context.Background()) }()

	<-entered
	c.Reload()
	close(release)
	require.NoError(t, <-done)

	assert.True(t, c.Stale(), "a load started before Reload must not clear the reload mark")
	assert.Empty(t, c.All())

	require.NoError(t, c.Ensure(context.Background()))
	mu.Lock()
	assert.Equal(t, 2, call)
	mu.Unlock()
	all := c.All()
	require.Len(t, all, 1)
	assert.Equal(t, "after-delete", all[0].UUID)
}

func TestServingTablesScopedByStatus(t *testing.T) {
	src := &fakeSource{tables: []model.ServingTable{
		{UUID: "t1", ServingTableStatus: enum.TableStatusReserved, Waiter: &model.Waiter{FirstName: "Ana"}},
		{UUID: "t2", ServingTableStatus: enum.TableStatusClosed, Waiter: &model.Waiter{FirstName: "Ana"}},
		{UUID: "t3", ServingTableStatus: enum.TableStatusReserved, Waiter: &model.Waiter{FirstName: "Marko"}},
	}}
	screens := screen.New(src, enum.LanguageEnglish)
	require.NoError(t, screens.ServingTables.Ensure(context.Background()))

	assert.Len(t, screens.ServingTables.Items(), 2, "reserved tables are shown by default")

	screens.ServingTables.SetFilter("ana")
	items := screens.ServingTables.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "t1", items[0].UUID)

	screens.ServingTables.SetScope(screen.TableStatus(enum.TableStatusClosed))
	items = screens.ServingTables.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "t2", items[0].UUID)
}

func TestProductsFilterFollowsLanguage(t *testing.T) {
	src := &fakeSource{products: []model.Product{
		{UUID: "p1", Name: "Grilled trout", NameTranslated: "Пастрмка"},
		{UUID: "p2", Name: "Shopska salad", NameTranslated: "Шопска салата"},
	}}

	en := screen.New(src, enum.LanguageEnglish)
	require.NoError(t, en.Products.Ensure(context.Background()))
	en.Products.SetFilter("trout")
	assert.Len(t, en.Products.Items(), 1)

	mk := screen.New(src, enum.LanguageMacedonian)
	require.NoError(t, mk.Products.Ensure(context.Background()))
	mk.Products.SetFilter("шопска")
	items := mk.Products.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].UUID)
}

func TestPaymentsFilterByWaiterName(t *testing.T) {
	src := &fakeSource{payments: []model.Payment{
		{UUID: "pay1", WaiterName: "Ana Petrova"},
		{UUID: "pay2", Waiter: &model.PersonName{FirstName: "Marko", LastName: "Iliev"}},
	}}
	screens := screen.New(src, enum.LanguageEnglish)
	require.NoError(t, screens.Payments.Ensure(context.Background()))

	screens.Payments.SetFilter("iliev")
	items := screens.Payments.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "pay2", items[0].UUID)
}

type fakeSource struct {
	products []model.Product
	payments []model.Payment
	tables   []model.ServingTable
}

func (f *fakeSource) FetchProducts(context.Context) ([]model.Product, error) { return f.products, nil }
func (f *fakeSource) FetchIngredients(context.Context) ([]model.Ingredient, error) {
	return nil, nil
}
func (f *fakeSource) FetchWaitersForAdminPage(context.Context) ([]model.Waiter, error) {
	return nil, nil
}
func (f *fakeSource) FetchPayments(context.Context) ([]model.Payment, error) { return f.payments, nil }
func (f *fakeSource) FetchServingTables(context.Context) ([]model.ServingTable, error) {
	return f.tables, nil
}
func (f *fakeSource) FetchUncompletedKitchenOrders(context.Context) ([]model.KitchenOrder, error) {
	return nil, nil
}
