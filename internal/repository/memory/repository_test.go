package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/repository/mongodb"
)

var _ mongodb.Repository = (*Repository)(nil)

func TestSnapshotsNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(3)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snap := models.DashboardSnapshot{TakenAt: base.Add(time.Duration(i) * time.Minute), ActiveOrders: i}
		if err := repo.SaveDashboardSnapshot(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListDashboardSnapshots(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ActiveOrders != 4 || got[2].ActiveOrders != 2 {
		t.Errorf("snapshots = %+v", got)
	}

	got, _ = repo.ListDashboardSnapshots(ctx, 1)
	if len(got) != 1 || got[0].ActiveOrders != 4 {
		t.Errorf("limited = %+v", got)
	}
}

func TestPreferencesDefaultAndUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(0)

	prefs, err := repo.GetPreferences(ctx, "ana@pos.test")
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Theme != models.ThemeLight || prefs.Email != "ana@pos.test" {
		t.Errorf("defaults = %+v", prefs)
	}

	prefs.Theme = models.ThemeDark
	if err := repo.SavePreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetPreferences(ctx, "ana@pos.test")
	if got.Theme != models.ThemeDark || got.UpdatedAt.IsZero() {
		t.Errorf("saved = %+v", got)
	}
}
