package posapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const (
	statisticsPath = "/api/estadisticas"
	dashboardPath  = "/api/dashboard/estadisticas"
)

func (c *APIClient) SalesReport(ctx context.Context) (*models.SalesReport, error) {
	report := new(models.SalesReport)
	if err := c.do(ctx, http.MethodGet, statisticsPath+"/ventas", report, nil); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	return report, nil
}

func (c *APIClient) PurchasesReport(ctx context.Context) (*models.PurchasesReport, error) {
	report := new(models.PurchasesReport)
	if err := c.do(ctx, http.MethodGet, statisticsPath+"/compras", report, nil); err != nil {
		return nil, fmt.Errorf("purchases report: %w", err)
	}
	return report, nil
}

func (c *APIClient) FinanceReport(ctx context.Context) (*models.FinanceReport, error) {
	report := new(models.FinanceReport)
	if err := c.do(ctx, http.MethodGet, statisticsPath+"/finanzas", report, nil); err != nil {
		return nil, fmt.Errorf("finance report: %w", err)
	}
	return report, nil
}

func (c *APIClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := new(models.DashboardStats)
	if err := c.do(ctx, http.MethodGet, dashboardPath, stats, nil); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
