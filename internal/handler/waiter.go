package handler

import (
	"net/http"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/store"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// WaiterHandler serves the waiter page: the selection context, the draft order and
// the confirm and charge flows.
type WaiterHandler struct {
	workspaces Workspaces
}

// NewWaiterHandler creates a new WaiterHandler.
func NewWaiterHandler(workspaces Workspaces) *WaiterHandler {
	return &WaiterHandler{workspaces: workspaces}
}

// RegisterRoutes registers waiter endpoints on the given Chi router.
// Expected to be mounted at /waiter.
func (h *WaiterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.State)
	r.Post("/refresh", h.Refresh)
	r.Put("/selection/waiter", h.SelectWaiter)
	r.Put("/selection/table", h.SelectTable)
	r.Put("/selection/order", h.SelectOrder)
	r.Post("/draft/products", h.AddProduct)
	r.Post("/orders", h.ConfirmOrder)
	r.Post("/charge", h.Charge)
	r.Get("/products", h.Products)
}

// --- Request / Response types ---

type selectCodeRequest struct {
	Code string `json:"code"`
}

type selectOrderRequest struct {
	Code int `json:"code"`
}

type addProductRequest struct {
	ProductUUID     string   `json:"productUuid"`
	IngredientUUIDs []string `json:"ingredientUuids"`
	Quantity        int      `json:"quantity"`
}

type chargeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type stateResponse struct {
	store.Snapshot
	DraftTotal decimal.Decimal `json:"draftTotal"`
}

// --- Handlers ---

// State returns the selection context, loading the catalog on first use.
func (h *WaiterHandler) State(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if snap := ws.Store.Snapshot(); snap.OriginalWaiters == nil && snap.OriginalProducts == nil {
		if err := ws.Store.RefreshAfterMutation(r.Context()); err != nil {
			writeError(w, "load waiter page", err)
			return
		}
	}
	writeState(w, ws)
}

// Refresh reloads the catalog and re-resolves the selected waiter.
func (h *WaiterHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if err := ws.Store.RefreshAfterMutation(r.Context()); err != nil {
		writeError(w, "refresh waiter page", err)
		return
	}
	writeState(w, ws)
}

func (h *WaiterHandler) SelectWaiter(w http.ResponseWriter, r *http.Request) {
	var req selectCodeRequest
	h.update(w, r, &req, func(ws *workspace.Workspace) error {
		ws.Store.SelectWaiterByCode(req.Code)
		return nil
	})
}

func (h *WaiterHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	var req selectCodeRequest
	h.update(w, r, &req, func(ws *workspace.Workspace) error {
		ws.Store.SelectTableByCode(req.Code)
		return nil
	})
}

func (h *WaiterHandler) SelectOrder(w http.ResponseWriter, r *http.Request) {
	var req selectOrderRequest
	h.update(w, r, &req, func(ws *workspace.Workspace) error {
		ws.Store.SelectOrderByCode(req.Code)
		return nil
	})
}

// AddProduct appends a line to the draft order.
func (h *WaiterHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	h.update(w, r, &req, func(ws *workspace.Workspace) error {
		return ws.Orders.AddProduct(r.Context(), service.AddProductRequest{
			ProductUUID:     req.ProductUUID,
			IngredientUUIDs: req.IngredientUUIDs,
			Quantity:        req.Quantity,
		})
	})
}

// ConfirmOrder sends the draft order to the backend.
func (h *WaiterHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	msg, err := ws.Orders.ConfirmOrder(r.Context())
	if err != nil {
		writeError(w, "confirm order", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// Charge pays part or all of the selected table's balance.
func (h *WaiterHandler) Charge(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	var req chargeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := ws.Orders.ChargeTable(r.Context(), req.Amount)
	if err != nil {
		writeError(w, "charge table", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// Products searches the catalog by the name shown in the session's language.
func (h *WaiterHandler) Products(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	lowered := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	products := []model.Product{}
	for _, p := range ws.Store.Products() {
		if lowered == "" || screen.Contains(p.DisplayName(ws.Lang), lowered) {
			products = append(products, p)
		}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *WaiterHandler) update(w http.ResponseWriter, r *http.Request, dst any, fn func(ws *workspace.Workspace) error) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	if !decodeJSON(w, r, dst) {
		return
	}
	if err := fn(ws); err != nil {
		writeError(w, "waiter selection", err)
		return
	}
	writeState(w, ws)
}

func writeState(w http.ResponseWriter, ws *workspace.Workspace) {
	writeJSON(w, http.StatusOK, stateResponse{
		Snapshot:   ws.Store.Snapshot(),
		DraftTotal: ws.Store.DraftTotal(),
	})
}
