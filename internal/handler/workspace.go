package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/gateway"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/middleware"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/google/uuid"
)

// Workspaces finds the workspace of an authenticated session.
// Satisfied by *workspace.Registry.
type Workspaces interface {
	Get(ctx context.Context, id uuid.UUID, lang string) (*workspace.Workspace, error)
}

type messageResponse struct {
	Message string `json:"message"`
}

// workspaceFor resolves the caller's workspace, writing the error response itself
// when there is none.
func workspaceFor(w http.ResponseWriter, r *http.Request, workspaces Workspaces) (*workspace.Workspace, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return nil, false
	}
	ws, err := workspaces.Get(r.Context(), claims.SessionID, claims.Lang)
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	return ws, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired, sign in again"})
		return
	}
	log.Printf("ERROR: load session: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// writeError maps backend and business-rule failures to a response. Backend messages
// are passed through verbatim.
func writeError(w http.ResponseWriter, what string, err error) {
	var reqErr *gateway.RequestError
	switch {
	case errors.As(err, &reqErr):
		status := http.StatusBadGateway
		switch reqErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			status = reqErr.Status
		}
		writeJSON(w, status, map[string]string{"error": reqErr.Message})

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrAmountNotPositive),
		errors.Is(err, service.ErrAmountExceedsBalance):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})

	case errors.Is(err, service.ErrTableClosed),
		errors.Is(err, service.ErrTableNotCharged),
		errors.Is(err, service.ErrTableFullyPaid),
		errors.Is(err, service.ErrNoWaiterSelected),
		errors.Is(err, service.ErrNoTableSelected),
		errors.Is(err, service.ErrNoDraftOrder):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	default:
		log.Printf("ERROR: %s: %v", what, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// pageNumber reads ?page=, defaulting to the first page.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// listPage serves one page of a list screen: ?reload=true refetches, ?q= filters.
func listPage[T any](w http.ResponseWriter, r *http.Request, c *screen.Collection[T]) (screen.Page[T], bool) {
	q := r.URL.Query()
	if q.Get("reload") == "true" {
		c.Reload()
	}
	if err := c.Ensure(r.Context()); err != nil {
		writeError(w, "load list", err)
		return screen.Page[T]{}, false
	}
	c.SetFilter(q.Get("q"))
	return c.Page(pageNumber(r)), true
}
