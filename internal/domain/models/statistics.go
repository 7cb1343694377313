package models

import "github.com/shopspring/decimal"

// TimePoint is one period of a time series, e.g. a month.
type TimePoint struct {
	Period string          `json:"periodo"`
	Total  decimal.Decimal `json:"total"`
}

// GroupedValue is one bucket of a grouped series, e.g. a provider.
type GroupedValue struct {
	Label string          `json:"etiqueta"`
	Value decimal.Decimal `json:"valor"`
}

// SalesReport backs the sales statistics tab.
type SalesReport struct {
	SalesByMonth    []TimePoint    `json:"ventasPorMes"`
	TopProductsSold []GroupedValue `json:"topProductosVendidos"`
	TopCustomers    []GroupedValue `json:"topClientes"`
}

// PurchasesReport backs the purchases statistics tab.
type PurchasesReport struct {
	PurchasesByMonth     []TimePoint    `json:"comprasPorMes"`
	TopProductsPurchased []GroupedValue `json:"topProductosComprados"`
	TopProviders         []GroupedValue `json:"topProveedores"`
}

// FinanceReport compares monthly income against costs.
type FinanceReport struct {
	MonthlyIncome []TimePoint `json:"ingresosMensuales"`
	MonthlyCosts  []TimePoint `json:"costosMensuales"`
	MonthlyProfit []TimePoint `json:"gananciaMensual"`
}

// StockAlert flags a product running low.
type StockAlert struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// RecentSale is a short sale summary for the dashboard.
type RecentSale struct {
	SaleID          int             `json:"ventaId"`
	Customer        string          `json:"cliente"`
	ProductsSummary string          `json:"productosResumen"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"estado"`
	Date            string          `json:"fecha"`
}

// Employee is an active staff member listed on the dashboard.
type Employee struct {
	ID       int    `json:"id"`
	Name     string `json:"nombre"`
	Role     string `json:"rol"`
	IsActive bool   `json:"isActive"`
}

// DashboardStats is the summary served by /api/dashboard/estadisticas.
type DashboardStats struct {
	SalesToday      decimal.Decimal `json:"ventasHoy"`
	SalesThisWeek   decimal.Decimal `json:"ventasSemana"`
	ItemsSoldToday  int             `json:"itemsVendidosHoy"`
	ActiveOrders    int             `json:"ordenesActivas"`
	Alerts          []StockAlert    `json:"alertas"`
	RecentSales     []RecentSale    `json:"recentSales,omitempty"`
	ActiveEmployees []Employee      `json:"activeEmployees,omitempty"`
}
