// Package workspace keeps the view-model state of every signed-in session.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
	"github.com/mamadbah2/posadmin/internal/service/inventory"
	"github.com/mamadbah2/posadmin/internal/service/products"
	"github.com/mamadbah2/posadmin/internal/service/purchases"
	"github.com/mamadbah2/posadmin/internal/service/sales"
)

// ErrWorkspaceNotFound reports a session without a workspace.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// Gateway is everything a workspace's view-models need from the backend.
type Gateway interface {
	sales.Gateway
	purchases.Gateway
	inventory.Gateway
	products.Gateway
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Deps are shared by every workspace the manager creates.
type Deps struct {
	Gateway       Gateway
	PageSize      int
	ImageBase     string
	ImageMaxWidth uint
	Mailer        sales.InvoiceMailer
	Logger        *zap.Logger
}

// Workspace is the state of one session: its product snapshot and the
// view-models built over it.
type Workspace struct {
	Session   models.Session
	Catalog   *catalog.Catalog
	Sales     *sales.ViewModel
	Purchases *purchases.ViewModel
	Inventory *inventory.ViewModel
	Products  *products.Service

	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// LastSeen is when the workspace was last used.
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Manager handles per-session workspaces.
type Manager struct {
	deps Deps
	now  func() time.Time

	workspaces map[string]*Workspace
	mu         sync.RWMutex
}

// NewManager creates a new workspace manager.
func NewManager(deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{
		deps:       deps,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the session's workspace, creating it on first use.
func (m *Manager) Get(session models.Session) *Workspace {
	now := m.now()

	m.mu.RLock()
	ws, ok := m.workspaces[session.ID]
	m.mu.RUnlock()
	if ok {
		ws.touch(now)
		return ws
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.workspaces[session.ID]; ok {
		ws.touch(now)
		return ws
	}
	ws = m.build(session)
	ws.lastSeen = now
	m.workspaces[session.ID] = ws
	m.deps.Logger.Debug("workspace created", zap.String("session_id", session.ID))
	return ws
}

// Lookup returns an existing workspace without creating one.
func (m *Manager) Lookup(sessionID string) (*Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.workspaces[sessionID]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

// Clear removes a session's workspace.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, sessionID)
}

// EvictIdle removes workspaces unused for longer than idle and returns how
// many were removed.
func (m *Manager) EvictIdle(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, ws := range m.workspaces {
		if ws.LastSeen().Before(cutoff) {
			delete(m.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.deps.Logger.Info("idle workspaces evicted", zap.Int("count", evicted), zap.Int("remaining", len(m.workspaces)))
	}
	return evicted
}

// Len is the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

func (m *Manager) build(session models.Session) *Workspace {
	logger := m.deps.Logger.With(zap.String("session_id", session.ID))
	cat := catalog.New(m.deps.Gateway.ListProducts)
	return &Workspace{
		Session:   session,
		Catalog:   cat,
		Sales:     sales.NewViewModel(m.deps.Gateway, cat, m.deps.PageSize, m.deps.Mailer, logger.Named("sales")),
		Purchases: purchases.NewViewModel(m.deps.Gateway, cat, m.deps.PageSize, logger.Named("purchases")),
		Inventory: inventory.NewViewModel(m.deps.Gateway, cat, logger.Named("inventory")),
		Products:  products.NewService(m.deps.Gateway, cat, m.deps.ImageBase, m.deps.ImageMaxWidth, logger.Named("products")),
	}
}
