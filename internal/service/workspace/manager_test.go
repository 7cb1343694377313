package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/pkg/clients/posapi"
)

var _ Gateway = (*posapi.APIClient)(nil)

func newManager() (*Manager, *time.Time) {
	clock := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	m := NewManager(Deps{Gateway: (*posapi.APIClient)(nil), PageSize: 5})
	m.now = func() time.Time { return clock }
	return m, &clock
}

func TestGetReusesWorkspacePerSession(t *testing.T) {
	m, _ := newManager()
	a := models.Session{ID: "a", Role: models.RoleAdmin}
	b := models.Session{ID: "b", Role: models.RoleEmployee}

	wa := m.Get(a)
	if m.Get(a) != wa {
		t.Error("second Get built a new workspace")
	}
	wb := m.Get(b)
	if wb == wa || wb.Catalog == wa.Catalog {
		t.Error("sessions share state")
	}
	if wa.Session != a || m.Len() != 2 {
		t.Errorf("session = %+v len = %d", wa.Session, m.Len())
	}
	if wa.Sales == nil || wa.Purchases == nil || wa.Inventory == nil || wa.Products == nil {
		t.Error("workspace not fully wired")
	}
}

func TestEvictIdle(t *testing.T) {
	m, clock := newManager()
	m.Get(models.Session{ID: "old"})
	*clock = clock.Add(90 * time.Minute)
	m.Get(models.Session{ID: "fresh"})
	*clock = clock.Add(45 * time.Minute)

	if n := m.EvictIdle(time.Hour); n != 1 {
		t.Fatalf("evicted = %d, want 1", n)
	}
	if _, err := m.Lookup("old"); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("old workspace still present: %v", err)
	}
	if _, err := m.Lookup("fresh"); err != nil {
		t.Errorf("fresh workspace evicted: %v", err)
	}
}

func TestClear(t *testing.T) {
	m, _ := newManager()
	m.Get(models.Session{ID: "a"})
	m.Clear("a")
	if m.Len() != 0 {
		t.Errorf("len = %d", m.Len())
	}
}
