package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/server/middleware"
	"github.com/mamadbah2/posadmin/internal/service/workspace"
)

// Workspaces hands out the per-session view-model state.
type Workspaces interface {
	Get(session models.Session) *workspace.Workspace
	Clear(sessionID string)
}

// filterRequest is the filter form as typed by the user. Month accepts a
// number, a Spanish month name or "Todo".
type filterRequest struct {
	Status   string `json:"estado"`
	Year     string `json:"year"`
	Month    string `json:"mes"`
	MinTotal string `json:"minTotal"`
	MaxTotal string `json:"maxTotal"`
	Product  string `json:"producto"`
}

func (f filterRequest) criteria() (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		Status:  strings.TrimSpace(f.Status),
		Product: strings.TrimSpace(f.Product),
	}
	if criteria.Status == models.MonthAll {
		criteria.Status = ""
	}

	if y := strings.TrimSpace(f.Year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return criteria, fmt.Errorf("%w: year must be a number", models.ErrValidation)
		}
		criteria.Year = year
	}

	month, err := models.ParseMonth(f.Month)
	if err != nil {
		return criteria, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	criteria.Month = month

	if criteria.MinTotal, err = optionalDecimal("minTotal", f.MinTotal); err != nil {
		return criteria, err
	}
	if criteria.MaxTotal, err = optionalDecimal("maxTotal", f.MaxTotal); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func optionalDecimal(field, value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", models.ErrValidation, field)
	}
	return &d, nil
}

func bindFilter(c *gin.Context) (models.FilterCriteria, bool) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return models.FilterCriteria{}, false
	}
	criteria, err := req.criteria()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.FilterCriteria{}, false
	}
	return criteria, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return n, true
}

func sessionOf(c *gin.Context) models.Session {
	session, _ := middleware.SessionFrom(c)
	return session
}

// lineRequest adds a product to a draft.
type lineRequest struct {
	ProductID int     `json:"productoId" binding:"required"`
	Quantity  int     `json:"cantidad" binding:"required"`
	Tax       float64 `json:"ivaPorcentaje"`
}
