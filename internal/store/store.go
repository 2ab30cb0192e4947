// Package store keeps one operator's working context on the waiter page: the catalog
// snapshots used to resolve typed codes and the selected waiter, table and order.
//
// Lookups never fail. A code that matches nothing leaves the selection empty, which is
// the normal state while the operator is still typing.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Backend is satisfied by *gateway.Client.
type Backend interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchWaitersForWaiterPage(ctx context.Context) ([]model.Waiter, error)
}

// SessionClearer forgets the persisted session; satisfied by *session.Handle.
type SessionClearer interface {
	Clear(ctx context.Context) error
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	OriginalWaiters           []model.Waiter      `json:"originalWaiters"`
	OriginalProducts          []model.Product     `json:"originalProducts"`
	SelectedWaiter            *model.Waiter       `json:"selectedWaiter,omitempty"`
	SelectedServingTable      *model.ServingTable `json:"selectedServingTable,omitempty"`
	SelectedServingTableOrder *model.Order        `json:"selectedServingTableOrder,omitempty"`
	IsDataLoading             bool                `json:"isDataLoading"`
}

// Store is safe for concurrent use.
type Store struct {
	backend Backend
	session SessionClearer

	mu               sync.Mutex
	originalWaiters  []model.Waiter
	originalProducts []model.Product
	selectedWaiter   *model.Waiter
	selectedTable    *model.ServingTable
	selectedOrder    *model.Order
	generation       uint64
	inflight         int
}

// New creates an empty store. session may be nil.
func New(backend Backend, session SessionClearer) *Store {
	return &Store{backend: backend, session: session}
}

// SelectWaiterByCode resolves code against the waiter catalog. An empty code clears
// the whole selection. Any other code clears the table and order selection and
// selects the matching waiter, or none.
func (s *Store) SelectWaiterByCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedTable = nil
	s.selectedOrder = nil

	code = strings.TrimSpace(code)
	if code == "" {
		s.selectedWaiter = nil
		return
	}
	s.selectedWaiter = findWaiter(s.originalWaiters, code)
}

// SelectTableByCode resolves code against the selected waiter's tables. A match is
// copied into the selection together with a fresh draft order numbered after the
// table's last order. An unknown code yields a FREE draft table with draft order 1.
// Nothing is sent to the backend.
func (s *Store) SelectTableByCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedTable = nil
	s.selectedOrder = nil

	code = strings.TrimSpace(code)
	if code == "" || s.selectedWaiter == nil {
		return
	}
	tableCode, ok := parseCode(code)
	if !ok {
		return
	}

	draft := model.Order{
		ListOfOrderProducts: []model.OrderProduct{},
		Waiter:              owner(*s.selectedWaiter),
	}

	if existing, ok := s.selectedWaiter.FindTable(tableCode); ok {
		table := existing.Clone()
		draft.Code = table.LastOrderCode() + 1
		s.selectedTable = &table
		s.selectedOrder = &draft
		return
	}

	s.selectedTable = &model.ServingTable{
		Code:               tableCode,
		ServingTableStatus: enum.TableStatusFree,
		ListOfOrders:       []model.Order{},
	}
	draft.Code = 1
	s.selectedOrder = &draft
}

// SelectOrderByCode points the order selection at a placed order of the selected
// table, or clears it when the table has no such order. A code of 0 is ignored.
func (s *Store) SelectOrderByCode(code int) {
	if code == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedOrder = nil
	if s.selectedTable == nil {
		return
	}
	if order, ok := s.selectedTable.FindOrder(code); ok {
		order = order.Clone()
		s.selectedOrder = &order
	}
}

// AddProductToDraftOrder appends a line to the selected order. Callers validate
// product and quantity. Reports false when no draft is selected; placed orders are
// history and never grow.
func (s *Store) AddProductToDraftOrder(product model.Product, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedOrder == nil || s.selectedOrder.UUID != "" {
		return false
	}
	p := product.Clone()
	s.selectedOrder.ListOfOrderProducts = append(s.selectedOrder.ListOfOrderProducts, model.OrderProduct{
		Product:  &p,
		Quantity: quantity,
	})
	s.selectedOrder.TotalPrice = s.selectedOrder.Total()
	return true
}

// RefreshAfterMutation re-fetches products and waiters. Once waiters arrive the
// selected waiter is resolved again by code and the table and order selection is
// cleared. Results of a refresh overtaken by a newer one, or by ResetSession, are
// dropped. On error the previous catalog is kept.
func (s *Store) RefreshAfterMutation(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	var (
		products []model.Product
		waiters  []model.Waiter
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.backend.FetchProducts(gctx)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		waiters, err = s.backend.FetchWaitersForWaiterPage(gctx)
		if err != nil {
			return fmt.Errorf("fetch waiters: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return nil
	}
	s.originalProducts = products
	s.originalWaiters = waiters

	if s.selectedWaiter != nil {
		s.selectedWaiter = findWaiter(waiters, strconv.Itoa(s.selectedWaiter.Code))
		s.selectedTable = nil
		s.selectedOrder = nil
	}
	return nil
}

// ResetSession forgets the catalog, the selection and the persisted session.
func (s *Store) ResetSession(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.originalWaiters = nil
	s.originalProducts = nil
	s.selectedWaiter = nil
	s.selectedTable = nil
	s.selectedOrder = nil
	s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SelectedWaiter returns a copy of the selected waiter.
func (s *Store) SelectedWaiter() (model.Waiter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedWaiter == nil {
		return model.Waiter{}, false
	}
	return s.selectedWaiter.Clone(), true
}

// SelectedServingTable returns a copy of the selected table; a draft table has no UUID.
func (s *Store) SelectedServingTable() (model.ServingTable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedTable == nil {
		return model.ServingTable{}, false
	}
	return s.selectedTable.Clone(), true
}

// SelectedOrder returns a copy of the selected (draft or placed) order.
func (s *Store) SelectedOrder() (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedOrder == nil {
		return model.Order{}, false
	}
	return s.selectedOrder.Clone(), true
}

// DraftTotal is the total of the selected order's lines.
func (s *Store) DraftTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedOrder == nil {
		return decimal.Zero
	}
	return s.selectedOrder.Total()
}

// FindProduct looks a product up in the catalog snapshot.
func (s *Store) FindProduct(uuid string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.originalProducts {
		if p.UUID == uuid {
			return p.Clone(), true
		}
	}
	return model.Product{}, false
}

// Products returns a copy of the product catalog.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.originalProducts)
}

// IsDataLoading reports whether a refresh is outstanding.
func (s *Store) IsDataLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		OriginalProducts: cloneProducts(s.originalProducts),
		OriginalWaiters:  make([]model.Waiter, len(s.originalWaiters)),
		IsDataLoading:    s.inflight > 0,
	}
	for i, w := range s.originalWaiters {
		snap.OriginalWaiters[i] = w.Clone()
	}
	if s.selectedWaiter != nil {
		w := s.selectedWaiter.Clone()
		snap.SelectedWaiter = &w
	}
	if s.selectedTable != nil {
		t := s.selectedTable.Clone()
		snap.SelectedServingTable = &t
	}
	if s.selectedOrder != nil {
		o := s.selectedOrder.Clone()
		snap.SelectedServingTableOrder = &o
	}
	return snap
}

// parseCode reads a waiter or table code typed by the operator. The whole input must
// be a number: "7a" is no match rather than code 7, so a typo never selects someone
// else's waiter or table.
func parseCode(code string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	return n, err == nil
}

func findWaiter(waiters []model.Waiter, code string) *model.Waiter {
	n, ok := parseCode(code)
	if !ok {
		return nil
	}
	for _, w := range waiters {
		if w.Code == n {
			found := w.Clone()
			return &found
		}
	}
	return nil
}

// owner is the waiter reference attached to a draft order, without back-references.
func owner(w model.Waiter) *model.Waiter {
	return &model.Waiter{UUID: w.UUID, Code: w.Code, FirstName: w.FirstName, LastName: w.LastName}
}

func cloneProducts(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
