// Package workspace keeps one working set per signed-in operator: the gateway
// authenticated with the operator's backend token, the selection store, the list
// screens and the services acting on them.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/gateway"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/session"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/store"
	"github.com/google/uuid"
)

var ErrInvalidPage = errors.New("unknown page")

// Workspace is everything one operator session works with.
type Workspace struct {
	Session *session.Handle
	Gateway *gateway.Client
	Store   *store.Store
	Screens *screen.Screens
	Orders  *service.OrderService
	Admin   *service.AdminService
	Kitchen *service.KitchenService
	Lang    string
}

// Hub pushes events to browsers. Satisfied by *ws.Hub.
type Hub interface {
	SessionNotifier(id uuid.UUID) notify.Notifier
	KitchenChanged()
}

// Registry owns the workspaces of the running server, keyed by session id.
type Registry struct {
	backendURL string
	cache      session.Cache
	hub        Hub
	httpClient *http.Client

	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace
}

func NewRegistry(backendURL string, cache session.Cache, hub Hub, httpClient *http.Client) *Registry {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Registry{
		backendURL: backendURL,
		cache:      cache,
		hub:        hub,
		httpClient: httpClient,
		workspaces: make(map[uuid.UUID]*Workspace),
	}
}

// Login signs the operator in with the backend, persists the session and opens its
// workspace. The backend's error message reaches the caller unchanged.
func (r *Registry) Login(ctx context.Context, creds model.Credentials, page, lang string) (*Workspace, session.Session, error) {
	if !enum.IsValidPage(page) {
		return nil, session.Session{}, ErrInvalidPage
	}

	id := uuid.New()
	anonymous := gateway.New(r.backendURL,
		gateway.WithHTTPClient(r.httpClient),
		gateway.WithNotifier(r.notifier(id)),
	)
	result, err := anonymous.Login(ctx, creds)
	if err != nil {
		return nil, session.Session{}, err
	}

	s := session.Session{
		ID:         id,
		Token:      result.Token,
		ActivePage: page,
		User:       result.User,
	}
	if err := r.cache.Save(ctx, s); err != nil {
		return nil, session.Session{}, fmt.Errorf("save session: %w", err)
	}

	w := r.open(id, lang)
	return w, s, nil
}

// Get returns the workspace of session id, rebuilding it from the session cache after
// a restart. session.ErrNotFound means the operator has to sign in again.
func (r *Registry) Get(ctx context.Context, id uuid.UUID, lang string) (*Workspace, error) {
	// The cache is the source of truth: another instance may have logged the
	// session out.
	if _, err := r.cache.Get(ctx, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			r.mu.Lock()
			delete(r.workspaces, id)
			r.mu.Unlock()
		}
		return nil, err
	}

	return r.open(id, lang), nil
}

// Logout resets the operator's store and forgets the session everywhere.
func (r *Registry) Logout(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	w, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()

	if ok {
		return w.Store.ResetSession(ctx)
	}
	return session.NewHandle(r.cache, id).Clear(ctx)
}

// KitchenChanged marks every kitchen queue for reload and tells kitchen screens.
func (r *Registry) KitchenChanged(_ context.Context) {
	r.mu.Lock()
	for _, w := range r.workspaces {
		w.Screens.Kitchen.Reload()
	}
	r.mu.Unlock()

	if r.hub != nil {
		r.hub.KitchenChanged()
	}
}

// Sweep closes workspaces whose session is gone from the cache and reports how many.
func (r *Registry) Sweep(ctx context.Context) int {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	closed := 0
	for _, id := range ids {
		_, err := r.cache.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("ERROR: sweep session %s: %v", id, err)
			continue
		}
		r.mu.Lock()
		delete(r.workspaces, id)
		r.mu.Unlock()
		closed++
	}
	return closed
}

// Len reports how many workspaces are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) open(id uuid.UUID, lang string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[id]; ok {
		return w
	}
	w := r.build(id, lang)
	r.workspaces[id] = w
	return w
}

func (r *Registry) build(id uuid.UUID, lang string) *Workspace {
	if lang == "" {
		lang = enum.LanguageEnglish
	}
	handle := session.NewHandle(r.cache, id)
	notifier := r.notifier(id)
	client := gateway.New(r.backendURL,
		gateway.WithHTTPClient(r.httpClient),
		gateway.WithTokenSource(handle),
		gateway.WithNotifier(notifier),
	)
	st := store.New(client, handle)
	screens := screen.New(client, lang)

	return &Workspace{
		Session: handle,
		Gateway: client,
		Store:   st,
		Screens: screens,
		Orders:  service.NewOrderService(client, st, notifier, r),
		Admin:   service.NewAdminService(client, screens, notifier, r),
		Kitchen: service.NewKitchenService(client, screens.Kitchen, notifier, r),
		Lang:    lang,
	}
}

func (r *Registry) notifier(id uuid.UUID) notify.Notifier {
	if r.hub == nil {
		return notify.Discard
	}
	return r.hub.SessionNotifier(id)
}
