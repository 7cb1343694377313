package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

type staticAuth map[string]models.Session

func (s staticAuth) Authenticate(token string) (models.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return models.Session{}, errors.New("bad token")
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := staticAuth{
		"admin": {ID: "1", Role: models.RoleAdmin},
		"emp":   {ID: "2", Role: models.RoleEmployee},
	}
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		s, _ := SessionFrom(c)
		c.String(http.StatusOK, s.ID)
	})
	r.GET("/admin", Auth(auth), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuth(t *testing.T) {
	r := newEngine()
	cases := []struct {
		name   string
		header string
		cookie string
		want   int
		body   string
	}{
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"malformed", "Token admin", "", http.StatusUnauthorized, ""},
		{"unknown", "Bearer nope", "", http.StatusUnauthorized, ""},
		{"bearer", "Bearer emp", "", http.StatusOK, "2"},
		{"cookie", "", "admin", http.StatusOK, "1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want || (tc.body != "" && w.Body.String() != tc.body) {
			t.Errorf("%s: %d %q", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine()
	for token, want := range map[string]int{"admin": http.StatusNoContent, "emp": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%s: status = %d, want %d", token, w.Code, want)
		}
	}
}

func TestMetricsCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(func() float64 { return 3 })
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping/7", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",path="/ping/:id",status="200"} 1`,
		"posadmin_workspaces 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
