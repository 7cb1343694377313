package models

import "time"

// DashboardSnapshot is one polled dashboard reading kept for history.
type DashboardSnapshot struct {
	TakenAt        time.Time `bson:"taken_at" json:"taken_at"`
	SalesToday     float64   `bson:"sales_today" json:"sales_today"`
	SalesThisWeek  float64   `bson:"sales_this_week" json:"sales_this_week"`
	ItemsSoldToday int       `bson:"items_sold_today" json:"items_sold_today"`
	ActiveOrders   int       `bson:"active_orders" json:"active_orders"`
	LowStockAlerts int       `bson:"low_stock_alerts" json:"low_stock_alerts"`
}

// NewDashboardSnapshot condenses stats into a storable snapshot.
func NewDashboardSnapshot(stats DashboardStats, takenAt time.Time) DashboardSnapshot {
	return DashboardSnapshot{
		TakenAt:        takenAt,
		SalesToday:     stats.SalesToday.InexactFloat64(),
		SalesThisWeek:  stats.SalesThisWeek.InexactFloat64(),
		ItemsSoldToday: stats.ItemsSoldToday,
		ActiveOrders:   stats.ActiveOrders,
		LowStockAlerts: len(stats.Alerts),
	}
}

// Theme values accepted in Preferences.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences holds per-user presentation settings.
type Preferences struct {
	Email       string    `bson:"email" json:"email"`
	Theme       string    `bson:"theme" json:"theme"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultPreferences is what a user who never saved preferences gets.
func DefaultPreferences(email string) Preferences {
	return Preferences{Email: email, Theme: ThemeLight}
}
