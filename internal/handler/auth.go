package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/auth"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/middleware"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Sessions defines the workspace registry methods needed by auth handlers.
// Satisfied by *workspace.Registry; narrow interface for testability.
type Sessions interface {
	Workspaces
	Login(ctx context.Context, creds model.Credentials, page, lang string) (*workspace.Workspace, session.Session, error)
	Logout(ctx context.Context, id uuid.UUID) error
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions  Sessions
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions Sessions, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// RegisterRoutes registers the public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// RegisterSessionRoutes registers endpoints that need an authenticated session.
func (h *AuthHandler) RegisterSessionRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Page     string `json:"page"`
	Lang     string `json:"lang"`
}

type loginResponse struct {
	Token      string     `json:"token"`
	User       model.User `json:"user"`
	ActivePage string     `json:"activePage"`
	Lang       string     `json:"lang"`
}

// --- Handlers ---

// Login signs the operator in with the backend and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}
	if !enum.IsValidPage(req.Page) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page must be one of administrationPage, waiterPage, kitchenPage"})
		return
	}
	if req.Lang == "" {
		req.Lang = enum.LanguageEnglish
	}
	if req.Lang != enum.LanguageEnglish && req.Lang != enum.LanguageMacedonian {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lang must be en or mk"})
		return
	}

	_, s, err := h.sessions.Login(r.Context(), model.Credentials{Username: req.Username, Password: req.Password}, req.Page, req.Lang)
	if err != nil {
		if errors.Is(err, workspace.ErrInvalidPage) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeError(w, "login", err)
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, s.ID, req.Username, s.ActivePage, req.Lang, h.tokenTTL)
	if err != nil {
		log.Printf("ERROR: generate token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:      token,
		User:       s.User,
		ActivePage: s.ActivePage,
		Lang:       req.Lang,
	})
}

// Logout forgets the session: backend token, selection and list state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if err := h.sessions.Logout(r.Context(), claims.SessionID); err != nil {
		log.Printf("ERROR: logout %s: %v", claims.SessionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user and page.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceFor(w, r, h.sessions)
	if !ok {
		return
	}
	s, err := ws.Session.Load(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       s.User,
		"activePage": s.ActivePage,
		"lang":       ws.Lang,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
