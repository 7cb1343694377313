package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/posadmin/internal/config"
	"github.com/mamadbah2/posadmin/internal/repository/memory"
	"github.com/mamadbah2/posadmin/internal/server/handlers"
	"github.com/mamadbah2/posadmin/internal/server/middleware"
	"github.com/mamadbah2/posadmin/internal/service/auth"
	"github.com/mamadbah2/posadmin/internal/service/preferences"
	"github.com/mamadbah2/posadmin/internal/service/statistics"
	"github.com/mamadbah2/posadmin/internal/service/users"
	"github.com/mamadbah2/posadmin/internal/service/workspace"
	"github.com/mamadbah2/posadmin/pkg/clients/posapi"
)

// fakeBackend emulates the POS API endpoints the tests touch.
type fakeBackend struct {
	mu          sync.Mutex
	createdSale map[string]any
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
	// Go 1.21 ServeMux has no "METHOD /path" patterns; dispatch on method per exact path.
	routes := map[string]map[string]http.HandlerFunc{}
	handle := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		if routes[path] == nil {
			byMethod := map[string]http.HandlerFunc{}
			routes[path] = byMethod
			mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != path {
					http.NotFound(w, r)
					return
				}
				h, ok := byMethod[r.Method]
				if !ok {
					http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
					return
				}
				h(w, r)
			})
		}
		routes[path][method] = fn
	}

	handle("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Name string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		role := "Empleado"
		if creds.Name == "admin" {
			role = "Administrador"
		}
		write(w, http.StatusOK, map[string]any{"usuario": map[string]any{"id": 1, "email": creds.Name + "@pos.test", "rol": role}})
	})
	handle("GET /api/productos", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Maize", "price": 100, "stock": 10},
			{"id": 2, "name": "Beans", "price": 50, "stock": 3},
		})
	})
	handle("GET /api/ventas", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []map[string]any{
			{"id": 1, "folio": "V-1", "total": 100, "estado": "Completado"},
			{"id": 2, "folio": "V-2", "total": 50, "estado": "Pendiente"},
		})
	})
	handle("GET /api/ventas/filtradas", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []map[string]any{
			{"id": 1, "folio": "V-1", "total": 100, "estado": r.URL.Query().Get("estado")},
		})
	})
	handle("POST /api/ventas", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.createdSale = body
		b.mu.Unlock()
		write(w, http.StatusCreated, map[string]any{"id": 3})
	})
	handle("GET /api/inventario", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, []map[string]any{})
	})
	handle("POST /api/inventario", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusBadRequest, map[string]any{"message": "Stock insuficiente"})
	})
	return mux
}

type testEnv struct {
	engine  *gin.Engine
	backend *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	metrics := middleware.NewMetrics(nil)
	client := posapi.NewClient(
		config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
		posapi.WithCallCounter(metrics.GatewayCallsTotal),
	)
	authSvc := auth.NewService(client, auth.NewTokens("test-secret", time.Hour), nil)
	workspaces := workspace.NewManager(workspace.Deps{Gateway: client, PageSize: 5, ImageBase: srv.URL, ImageMaxWidth: 800})
	store := memory.NewRepository(10)

	h := Handlers{
		Auth:        handlers.NewAuthHandler(authSvc, workspaces, nil),
		Sales:       handlers.NewSalesHandler(workspaces, nil),
		Purchases:   handlers.NewPurchasesHandler(workspaces, nil),
		Inventory:   handlers.NewInventoryHandler(workspaces, nil),
		Products:    handlers.NewProductsHandler(workspaces, nil),
		Users:       handlers.NewUsersHandler(users.NewService(client, nil), nil),
		Statistics:  handlers.NewStatisticsHandler(statistics.NewService(client, nil, statistics.WithHistory(store)), nil),
		Preferences: handlers.NewPreferencesHandler(preferences.NewService(store), nil),
	}
	engine := New(h, Options{
		AllowedOrigins: []string{"http://localhost:4200"},
		Authenticator:  authSvc,
		Metrics:        metrics,
	}, nil)

	return &testEnv{engine: engine, backend: backend}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, name string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"name": name, "password": "123456"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", w.Code, w.Body.String())
	}
	var grant struct{ Token string }
	if err := json.Unmarshal(w.Body.Bytes(), &grant); err != nil || grant.Token == "" {
		t.Fatalf("login body = %s", w.Body.String())
	}
	return grant.Token
}

func TestHealthAndAuthGate(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Errorf("healthz = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/sales", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated sales = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/sales", "forged", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("forged token sales = %d", w.Code)
	}
}

func TestSaleFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana")

	w := env.do(t, http.MethodGet, "/api/v1/sales", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d %s", w.Code, w.Body.String())
	}
	var page struct {
		Page       int `json:"page"`
		TotalItems int `json:"total_items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.TotalItems != 2 {
		t.Errorf("page = %+v", page)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/sales", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty draft submit = %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/api/v1/sales/draft/lines", token, map[string]any{"productoId": 1, "cantidad": 2}); w.Code != http.StatusOK {
		t.Fatalf("add line = %d %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPut, "/api/v1/sales/draft/details", token, map[string]any{"metodoPago": "Efectivo"}); w.Code != http.StatusOK {
		t.Fatalf("details = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/v1/sales", token, nil); w.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}

	env.backend.mu.Lock()
	created := env.backend.createdSale
	env.backend.mu.Unlock()
	if created["metodoPago"] != "Efectivo" || created["total"] != float64(200) {
		t.Errorf("backend received %v", created)
	}
}

func TestFilterValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana")

	w := env.do(t, http.MethodPut, "/api/v1/sales/filters", token, map[string]any{"mes": "Brumario"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad month = %d", w.Code)
	}
}

func TestListKeepsStoredFilter(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana")

	if w := env.do(t, http.MethodPut, "/api/v1/sales/filters", token, map[string]any{"estado": "Completado"}); w.Code != http.StatusOK {
		t.Fatalf("set filter = %d %s", w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/v1/sales", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d %s", w.Code, w.Body.String())
	}
	var page struct {
		TotalItems int `json:"total_items"`
		Criteria   struct {
			Status string `json:"estado"`
		} `json:"criteria"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 1 || page.Criteria.Status != "Completado" {
		t.Errorf("list after filter = %+v, want the stored criteria reused", page)
	}
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana")
	if w := env.do(t, http.MethodGet, "/api/v1/users", token, nil); w.Code != http.StatusForbidden {
		t.Errorf("employee users = %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if !strings.Contains(w.Body.String(), `"displayName":"Usuario"`) {
		t.Errorf("me = %s", w.Body.String())
	}
}

func TestBackendRejectionSurfacesMessage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana")

	w := env.do(t, http.MethodPost, "/api/v1/inventory", token, map[string]any{"productoId": 1, "tipo": "SALIDA", "cantidad": 50})
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "Stock insuficiente") {
		t.Errorf("inventory = %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ana")

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	body := w.Body.String()
	if !strings.Contains(body, `http_requests_total{method="POST",path="/api/v1/auth/login",status="200"} 1`) {
		t.Errorf("missing request metric")
	}
	if !strings.Contains(body, `pos_api_calls_total{method="POST",status="200"} 1`) {
		t.Errorf("missing gateway metric")
	}
}
