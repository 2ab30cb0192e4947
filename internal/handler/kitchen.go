package handler

import (
	"net/http"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/go-chi/chi/v5"
)

// KitchenHandler serves the kitchen page: the pending queue in priority order and
// completion of orders.
type KitchenHandler struct {
	workspaces Workspaces
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(workspaces Workspaces) *KitchenHandler {
	return &KitchenHandler{workspaces: workspaces}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
// Expected to be mounted at /kitchen.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.Queue)
	r.Get("/orders/completed", h.Completed)
	r.Post("/orders/{id}/complete", h.Complete)
}

type queueResponse struct {
	Items  []service.PrioritizedOrder `json:"items"`
	Number int                        `json:"page"`
	Size   int                        `json:"pageSize"`
	Total  int                        `json:"total"`
	Pages  int                        `json:"pages"`
}

// Queue returns one page of uncompleted kitchen orders, oldest first.
func (h *KitchenHandler) Queue(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	page, ok := listPage(w, r, ws.Screens.Kitchen)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, queueResponse{
		Items:  service.Prioritize(page),
		Number: page.Number,
		Size:   page.Size,
		Total:  page.Total,
		Pages:  page.Pages,
	})
}

// Completed lists the completed kitchen orders of one waiter (?waiter=<uuid>).
func (h *KitchenHandler) Completed(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	waiterUUID := r.URL.Query().Get("waiter")
	if waiterUUID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "waiter is required"})
		return
	}
	orders, err := ws.Kitchen.Completed(r.Context(), waiterUUID)
	if err != nil {
		writeError(w, "completed kitchen orders", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Complete marks a kitchen order as prepared.
func (h *KitchenHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.workspaces)
	if !ok {
		return
	}
	msg, err := ws.Kitchen.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "complete kitchen order", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
