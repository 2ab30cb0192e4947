package handler

import (
	"net/http"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the administration page: catalog and staff lists with their
// mutations, serving tables with their orders, and payments.
type AdminHandler struct {
	workspaces Workspaces
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(workspaces Workspaces) *AdminHandler {
	return &AdminHandler{workspaces: workspaces}
}

// RegisterRoutes registers administration endpoints on the given Chi router.
// Expected to be mounted at /admin.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.ListIngredients)
		r.Post("/", h.CreateIngredient)
		r.Put("/{id}", h.UpdateIngredient)
		r.Delete("/{id}", h.DeleteIngredient)
	})
	r.Route("/waiters", func(r chi.Router) {
		r.Get("/", h.ListWaiters)
		r.Post("/", h.CreateWaiter)
		r.Put("/{id}", h.UpdateWaiter)
		r.Delete("/{id}", h.DeleteWaiter)
	})
	r.Route("/serving-tables", func(r chi.Router) {
		r.Get("/", h.ListServingTables)
		r.Get("/{id}", h.GetServingTable)
		r.Put("/{id}", h.UpdateServingTable)
		r.Delete("/{id}", h.DeleteServingTable)
		r.Post("/{id}/close", h.CloseServingTable)
		r.Delete("/{id}/orders/{orderId}", h.DeleteOrder)
		r.Delete("/{id}/orders/{orderId}/products/{lineId}", h.DeleteOrderLine)
	})
	r.Get("/payments", h.ListPayments)
}

// --- Lists ---

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.workspaces, func(ws *workspace.Workspace) *screen.Collection[model.Product] { return ws.Screens.Products })
}

func (h *AdminHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.workspaces, func(ws *workspace.Workspace) *screen.Collection[model.Ingredient] { return ws.Screens.Ingredients })
}

func (h *AdminHandler) ListWaiters(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.workspaces, func(ws *workspace.Workspace) *screen.Collection[model.Waiter] { return ws.Screens.Waiters })
}

func (h *AdminHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.workspaces, func(ws *workspace.Workspace) *screen.Collection[model.Payment] { return ws.Screens.Payments })
}

// ListServingTables lists tables of one status (?status=RESERVED by default, or CLOSED).
func (h *AdminHandler) ListServingTables(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if status := strings.ToUpper(r.URL.Query().Get("status")); status != "" {
		switch status {
		case enum.TableStatusFree, enum.TableStatusReserved, enum.TableStatusClosed:
			ws.Screens.ServingTables.SetScope(screen.TableStatus(status))
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
	}
	if page, ok := listPage(w, r, ws.Screens.ServingTables); ok {
		writeJSON(w, http.StatusOK, page)
	}
}

func serveList[T any](w http.ResponseWriter, r *http.Request, workspaces Workspaces, pick func(*workspace.Workspace) *screen.Collection[T]) {
	ws, ok := workspaceFor(w, r, workspaces)
	if !ok {
		return
	}
	if page, ok := listPage(w, r, pick(ws)); ok {
		writeJSON(w, http.StatusOK, page)
	}
}

// --- Products ---

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	h.mutate(w, r, &p, func(ws *workspace.Workspace) (string, error) {
		p.UUID = ""
		return ws.Admin.CreateProduct(r.Context(), p)
	})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	h.mutate(w, r, &p, func(ws *workspace.Workspace) (string, error) {
		p.UUID = chi.URLParam(r, "id")
		return ws.Admin.UpdateProduct(r.Context(), p)
	})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	})
}

// --- Ingredients ---

func (h *AdminHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var i model.Ingredient
	h.mutate(w, r, &i, func(ws *workspace.Workspace) (string, error) {
		i.UUID = ""
		return ws.Admin.CreateIngredient(r.Context(), i)
	})
}

func (h *AdminHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var i model.Ingredient
	h.mutate(w, r, &i, func(ws *workspace.Workspace) (string, error) {
		i.UUID = chi.URLParam(r, "id")
		return ws.Admin.UpdateIngredient(r.Context(), i)
	})
}

func (h *AdminHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteIngredient(r.Context(), chi.URLParam(r, "id"))
	})
}

// --- Waiters ---

func (h *AdminHandler) CreateWaiter(w http.ResponseWriter, r *http.Request) {
	var waiter model.Waiter
	h.mutate(w, r, &waiter, func(ws *workspace.Workspace) (string, error) {
		waiter.UUID = ""
		return ws.Admin.CreateWaiter(r.Context(), waiter)
	})
}

func (h *AdminHandler) UpdateWaiter(w http.ResponseWriter, r *http.Request) {
	var dto model.UpdateWaiterDTO
	h.mutate(w, r, &dto, func(ws *workspace.Workspace) (string, error) {
		dto.UUID = chi.URLParam(r, "id")
		return ws.Admin.UpdateWaiter(r.Context(), dto)
	})
}

func (h *AdminHandler) DeleteWaiter(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteWaiter(r.Context(), chi.URLParam(r, "id"))
	})
}

// --- Serving tables ---

func (h *AdminHandler) GetServingTable(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	table, err := ws.Admin.ServingTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get serving table", err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *AdminHandler) UpdateServingTable(w http.ResponseWriter, r *http.Request) {
	var dto model.UpdateServingTableDTO
	h.mutate(w, r, &dto, func(ws *workspace.Workspace) (string, error) {
		dto.UUID = chi.URLParam(r, "id")
		return ws.Admin.UpdateServingTable(r.Context(), dto)
	})
}

func (h *AdminHandler) CloseServingTable(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.CloseServingTable(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) DeleteServingTable(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteServingTable(r.Context(), chi.URLParam(r, "id"))
	})
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteOrder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "orderId"))
	})
}

func (h *AdminHandler) DeleteOrderLine(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(ws *workspace.Workspace) (string, error) {
		return ws.Admin.DeleteOrderLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "orderId"), chi.URLParam(r, "lineId"))
	})
}

// mutate decodes the body into dst (when given), runs fn and answers with the
// backend's message.
func (h *AdminHandler) mutate(w http.ResponseWriter, r *http.Request, dst any, fn func(ws *workspace.Workspace) (string, error)) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if dst != nil && !decodeJSON(w, r, dst) {
		return
	}
	msg, err := fn(ws)
	if err != nil {
		writeError(w, "admin mutation", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
