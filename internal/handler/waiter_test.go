package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/shopspring/decimal"
)

type waiterState struct {
	OriginalWaiters      []model.Waiter      `json:"originalWaiters"`
	OriginalProducts     []model.Product     `json:"originalProducts"`
	SelectedWaiter       *model.Waiter       `json:"selectedWaiter"`
	SelectedServingTable *model.ServingTable `json:"selectedServingTable"`
	SelectedOrder        *model.Order        `json:"selectedServingTableOrder"`
	DraftTotal           decimal.Decimal     `json:"draftTotal"`
}

func TestWaiterState_LoadsCatalog(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, enum.PageWaiter)

	rr := e.do(t, "GET", "/waiter/state", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var state waiterState
	decode(t, rr, &state)
	if len(state.OriginalWaiters) != 1 || len(state.OriginalProducts) != 2 {
		t.Errorf("catalog: got %d waiters, %d products", len(state.OriginalWaiters), len(state.OriginalProducts))
	}
	if state.SelectedWaiter != nil {
		t.Error("nothing should be selected yet")
	}
}

func TestWaiterFlow_NewTableFirstOrder(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, enum.PageWaiter)
	e.do(t, "GET", "/waiter/state", token, nil)

	rr := e.do(t, "PUT", "/waiter/selection/waiter", token, map[string]string{"code": "12"})
	var state waiterState
	decode(t, rr, &state)
	if state.SelectedWaiter == nil || state.SelectedWaiter.UUID != "w1" {
		t.Fatalf("waiter: got %+v", state.SelectedWaiter)
	}

	rr = e.do(t, "PUT", "/waiter/selection/table", token, map[string]string{"code": "7"})
	decode(t, rr, &state)
	if state.SelectedServingTable == nil || state.SelectedServingTable.ServingTableStatus != enum.TableStatusFree {
		t.Fatalf("table: got %+v", state.SelectedServingTable)
	}
	if state.SelectedOrder == nil || state.SelectedOrder.Code != 1 {
		t.Fatalf("draft order: got %+v", state.SelectedOrder)
	}

	rr = e.do(t, "POST", "/waiter/draft/products", token, map[string]any{"productUuid": "p1", "quantity": 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("add product: status %d, body %s", rr.Code, rr.Body.String())
	}
	decode(t, rr, &state)
	if !state.DraftTotal.Equal(decimal.NewFromInt(200)) {
		t.Errorf("draft total: got %s, want 200", state.DraftTotal)
	}

	rr = e.do(t, "POST", "/waiter/orders", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: status %d, body %s", rr.Code, rr.Body.String())
	}
	if got := messageOf(t, rr); got != "Serving table created." {
		t.Errorf("message: got %q", got)
	}

	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	if len(e.backend.created) != 1 {
		t.Fatalf("created: got %d requests", len(e.backend.created))
	}
	dto := e.backend.created[0]
	if dto.WaiterUUID != "w1" || dto.ServingTableCode != 7 || dto.OrderDTO.Code != 1 {
		t.Errorf("dto: got %+v", dto)
	}
	if len(dto.OrderDTO.ListOfOrderProducts) != 1 || dto.OrderDTO.ListOfOrderProducts[0].Quantity != 2 {
		t.Errorf("lines: got %+v", dto.OrderDTO.ListOfOrderProducts)
	}
}

func TestWaiterRules(t *testing.T) {
	e := newEnv(t)
	token := e.login(t, enum.PageWaiter)
	e.do(t, "GET", "/waiter/state", token, nil)

	rr := e.do(t, "POST", "/waiter/orders", token, nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("confirm without selection: got %d, want %d", rr.Code, http.StatusConflict)
	}

	e.do(t, "PUT", "/waiter/selection/waiter", token, map[string]string{"code": "12"})
	e.do(t, "PUT", "/waiter/selection/table", token, map[string]string{"code": "3"})

	rr = e.do(t, "POST", "/waiter/orders", token, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("confirm empty draft: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	rr = e.do(t, "POST", "/waiter/draft/products", token, map[string]any{"productUuid": "p1", "quantity": 100})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("quantity 100: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}

	rr = e.do(t, "POST", "/waiter/draft/products", token, map[string]any{"productUuid": "p404", "quantity": 1})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown product: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	// Table 3 owes 300.
	rr = e.do(t, "POST", "/waiter/charge", token, map[string]any{"amount": 301})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("charge over balance: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	rr = e.do(t, "POST", "/waiter/charge", token, map[string]any{"amount": 0})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("charge zero: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestWaiterProducts_SearchByLanguage(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "POST", "/auth/login", "", map[string]string{
		"username": "ana", "password": "secret", "page": enum.PageWaiter, "lang": enum.LanguageMacedonian,
	})
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rr, &login)
	e.do(t, "GET", "/waiter/state", login.Token, nil)

	rr = e.do(t, "GET", "/waiter/products?q="+url.QueryEscape("пастрмка"), login.Token, nil)
	var products []model.Product
	decode(t, rr, &products)
	if len(products) != 1 || products[0].UUID != "p2" {
		t.Errorf("products: got %+v", products)
	}
}
