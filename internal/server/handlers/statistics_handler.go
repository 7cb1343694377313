package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/service/statistics"
)

// StatisticsHandler exposes the reports and the dashboard.
type StatisticsHandler struct {
	stats  *statistics.Service
	logger *zap.Logger
}

// NewStatisticsHandler constructs the statistics HTTP adapter.
func NewStatisticsHandler(stats *statistics.Service, logger *zap.Logger) *StatisticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsHandler{stats: stats, logger: logger}
}

func report[T any](h *StatisticsHandler, load func(context.Context) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := load(c.Request.Context())
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// SalesReport serves the sales tab.
func (h *StatisticsHandler) SalesReport() gin.HandlerFunc {
	return report(h, h.stats.SalesReport)
}

// PurchasesReport serves the purchases tab.
func (h *StatisticsHandler) PurchasesReport() gin.HandlerFunc {
	return report(h, h.stats.PurchasesReport)
}

// FinanceReport serves the finance tab.
func (h *StatisticsHandler) FinanceReport() gin.HandlerFunc {
	return report(h, h.stats.FinanceReport)
}

// Dashboard returns the last polled dashboard state.
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Dashboard())
}

// DashboardHistory lists recorded dashboard readings.
func (h *StatisticsHandler) DashboardHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	history, err := h.stats.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
