package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/sales"
)

// SalesHandler exposes a session's sales view-model.
type SalesHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

// NewSalesHandler constructs the sales HTTP adapter.
func NewSalesHandler(workspaces Workspaces, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{workspaces: workspaces, logger: logger}
}

func (h *SalesHandler) vm(c *gin.Context) *sales.ViewModel {
	return h.workspaces.Get(sessionOf(c)).Sales
}

// List loads sales with the current criteria and products, then returns the
// current page.
func (h *SalesHandler) List(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.Init(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Page moves the page cursor without refetching.
func (h *SalesHandler) Page(c *gin.Context) {
	n, ok := intParam(c, "n")
	if !ok {
		return
	}
	vm := h.vm(c)
	vm.View().SetPage(n)
	c.JSON(http.StatusOK, vm.View().Current())
}

// SetFilter applies new criteria.
func (h *SalesHandler) SetFilter(c *gin.Context) {
	criteria, ok := bindFilter(c)
	if !ok {
		return
	}
	vm := h.vm(c)
	if err := vm.View().SetFilter(c.Request.Context(), criteria); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// ClearFilters resets the criteria and reloads.
func (h *SalesHandler) ClearFilters(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.View().ClearFilters(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Draft returns the sale being assembled.
func (h *SalesHandler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, h.vm(c).Draft().View())
}

// AddLine adds a product line to the draft.
func (h *SalesHandler) AddLine(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.vm(c)
	if !vm.AddLine(req.ProductID, req.Quantity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product or quantity below 1"})
		return
	}
	c.JSON(http.StatusOK, vm.Draft().View())
}

// RemoveLine drops the line at index from the draft.
func (h *SalesHandler) RemoveLine(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	vm := h.vm(c)
	if !vm.Draft().RemoveLine(index) {
		c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
		return
	}
	c.JSON(http.StatusOK, vm.Draft().View())
}

type saleDetailsRequest struct {
	PaymentMethod string            `json:"metodoPago"`
	Fiscal        models.FiscalData `json:"fiscal"`
}

// SetDetails sets the draft's payment method and fiscal fields.
func (h *SalesHandler) SetDetails(c *gin.Context) {
	var req saleDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.vm(c)
	vm.Draft().SetDetails(req.PaymentMethod, req.Fiscal)
	c.JSON(http.StatusOK, vm.Draft().View())
}

// ResetDraft empties the draft.
func (h *SalesHandler) ResetDraft(c *gin.Context) {
	vm := h.vm(c)
	vm.Draft().Reset()
	c.JSON(http.StatusOK, vm.Draft().View())
}

// Register submits the draft.
func (h *SalesHandler) Register(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.Register(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vm.View().Current())
}

// Update saves an edit of a sale.
func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var edit sales.Edit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.vm(c)
	if err := vm.Update(c.Request.Context(), id, edit); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Delete removes a sale.
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	vm := h.vm(c)
	if err := vm.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Duplicate submits a copy of a sale.
func (h *SalesHandler) Duplicate(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	vm := h.vm(c)
	if err := vm.Duplicate(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vm.View().Current())
}

// EmailInvoice sends the invoice notice of a sale.
func (h *SalesHandler) EmailInvoice(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.vm(c).EmailInvoice(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}
