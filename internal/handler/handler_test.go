package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/handler"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/middleware"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

// --- Fake REST backend ---

type fakeBackend struct {
	mu          sync.Mutex
	products    []model.Product
	ingredients []model.Ingredient
	waiters     []model.Waiter
	tables      []model.ServingTable
	kitchen     []model.KitchenOrder
	created     []model.CreateTableWithFirstOrderDTO
	calls       map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: make(map[string]int),
		products: []model.Product{
			{UUID: "p1", Name: "Shopska salad", NameTranslated: "Шопска салата", Price: decimal.NewFromInt(100), ProductCategory: enum.CategorySalads},
			{UUID: "p2", Name: "Trout", NameTranslated: "Пастрмка", Price: decimal.NewFromInt(450), ProductCategory: enum.CategoryGrill},
		},
		ingredients: []model.Ingredient{
			{UUID: "i1", Name: "Garlic", NameTranslated: "Лук"},
			{UUID: "i9", Name: "Parsley", NameTranslated: "Магдонос"},
		},
		waiters: []model.Waiter{{
			UUID: "w1", Code: 12, FirstName: "Ana", LastName: "Petrova",
			ListOfServingTables: []model.ServingTable{{
				UUID: "t3", Code: 3, ServingTableStatus: enum.TableStatusReserved,
				TotalPrice: decimal.NewFromInt(500), AmountPaid: decimal.NewFromInt(200),
				ListOfOrders: []model.Order{{UUID: "o1", Code: 1}},
			}},
		}},
		tables: []model.ServingTable{
			{UUID: "t3", Code: 3, ServingTableStatus: enum.TableStatusReserved, Waiter: &model.Waiter{FirstName: "Ana"},
				ListOfOrders: []model.Order{{UUID: "o1", Code: 1, ListOfOrderProducts: []model.OrderProduct{{UUID: "l1", Quantity: 1}}}}},
			{UUID: "t4", Code: 4, ServingTableStatus: enum.TableStatusClosed, Waiter: &model.Waiter{FirstName: "Marko"},
				ListOfOrders: []model.Order{{UUID: "o9", Code: 1}}},
		},
		kitchen: []model.KitchenOrder{
			{UUID: "k1", Waiter: &model.Waiter{FirstName: "Ana", LastName: "Petrova"}},
			{UUID: "k2", Waiter: &model.Waiter{FirstName: "Marko", LastName: "Nikolov"}},
		},
	}
}

func (fb *fakeBackend) count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[path]
}

func (fb *fakeBackend) serve(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	list := func(path string, v func() any) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fb.mu.Lock()
			defer fb.mu.Unlock()
			json.NewEncoder(w).Encode(v())
		})
	}

	mux.HandleFunc("POST /api/authenticate/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, "Bad credentials.")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": model.LoginResult{
			User:  model.User{UUID: "u1", Username: creds.Username, FirstName: "Ana"},
			Token: "backend-token",
		}})
	})
	list("GET /api/products/fetch-products", func() any { return fb.products })
	list("GET /api/ingredients/fetch-ingredients", func() any { return fb.ingredients })
	list("GET /api/waiters/fetch-waiters-for-waiter-page", func() any { return fb.waiters })
	list("GET /api/waiters/fetch-waiters-for-admin-page", func() any { return fb.waiters })
	list("GET /api/serving-tables/fetch-serving-tables", func() any { return fb.tables })
	list("GET /api/kitchen-orders/fetch-uncompleted-kitchen-orders", func() any { return fb.kitchen })
	list("GET /api/payments/fetch-payments", func() any { return []model.Payment{} })

	mux.HandleFunc("DELETE /api/ingredients/delete-ingredient", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IngredientID string `json:"ingredientId"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls[r.URL.Path]++
		kept := fb.ingredients[:0]
		for _, i := range fb.ingredients {
			if i.UUID != body.IngredientID {
				kept = append(kept, i)
			}
		}
		fb.ingredients = kept
		io.WriteString(w, "Ingredient with id "+body.IngredientID+" deleted.")
	})
	mux.HandleFunc("DELETE /api/products/delete-product", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls[r.URL.Path]++
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Product is used by an open order.")
	})
	mux.HandleFunc("DELETE /api/orders/delete-order-from-serving-table", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls[r.URL.Path]++
		io.WriteString(w, "Order deleted.")
	})
	mux.HandleFunc("POST /api/serving-tables/create-serving-table-with-first-order", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Dto model.CreateTableWithFirstOrderDTO `json:"servingTableToCreate"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls[r.URL.Path]++
		fb.created = append(fb.created, body.Dto)
		io.WriteString(w, "Serving table created.")
	})
	mux.HandleFunc("POST /api/kitchen-orders/mark-order-as-completed", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			KitchenOrderUUID string `json:"kitchenOrderUuid"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls[r.URL.Path]++
		kept := fb.kitchen[:0]
		for _, k := range fb.kitchen {
			if k.UUID != body.KitchenOrderUUID {
				kept = append(kept, k)
			}
		}
		fb.kitchen = kept
		io.WriteString(w, "Order marked as completed.")
	})
	mux.HandleFunc("POST /api/kitchen-orders/fetch-completed-kitchen-orders", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			WaiterUUID string `json:"waiterUuid"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode([]model.KitchenOrder{{UUID: "done", Completed: true, Waiter: &model.Waiter{UUID: body.WaiterUUID}}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// --- BFF under test ---

type env struct {
	backend  *fakeBackend
	registry *workspace.Registry
	router   chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fb := newFakeBackend()
	srv := fb.serve(t)
	reg := workspace.NewRegistry(srv.URL, session.NewMemoryCache(time.Hour), nil, srv.Client())

	authHandler := handler.NewAuthHandler(reg, testSecret, time.Hour)
	r := chi.NewRouter()
	authHandler.RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		authHandler.RegisterSessionRoutes(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequirePage(enum.PageAdministration))
			handler.NewAdminHandler(reg).RegisterRoutes(r)
		})
		r.Route("/waiter", func(r chi.Router) {
			r.Use(middleware.RequirePage(enum.PageWaiter))
			handler.NewWaiterHandler(reg).RegisterRoutes(r)
		})
		r.Route("/kitchen", func(r chi.Router) {
			r.Use(middleware.RequirePage(enum.PageKitchen))
			handler.NewKitchenHandler(reg).RegisterRoutes(r)
		})
	})
	return &env{backend: fb, registry: reg, router: r}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *env) login(t *testing.T, page string) string {
	t.Helper()
	rr := e.do(t, "POST", "/auth/login", "", map[string]string{
		"username": "ana", "password": "secret", "page": page,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rr, &resp)
	return resp.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decode(t, rr, &resp)
	return resp["error"]
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decode(t, rr, &resp)
	return resp["message"]
}
