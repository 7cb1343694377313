package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/service/purchases"
)

// PurchasesHandler exposes a session's purchases view-model.
type PurchasesHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

// NewPurchasesHandler constructs the purchases HTTP adapter.
func NewPurchasesHandler(workspaces Workspaces, logger *zap.Logger) *PurchasesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchasesHandler{workspaces: workspaces, logger: logger}
}

func (h *PurchasesHandler) vm(c *gin.Context) *purchases.ViewModel {
	return h.workspaces.Get(sessionOf(c)).Purchases
}

// List loads purchases, products and providers, then returns the current page.
func (h *PurchasesHandler) List(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.Init(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Providers returns the providers loaded with the list.
func (h *PurchasesHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, h.vm(c).Providers())
}

// Page moves the page cursor without refetching.
func (h *PurchasesHandler) Page(c *gin.Context) {
	n, ok := intParam(c, "n")
	if !ok {
		return
	}
	vm := h.vm(c)
	vm.View().SetPage(n)
	c.JSON(http.StatusOK, vm.View().Current())
}

// SetFilter applies new criteria.
func (h *PurchasesHandler) SetFilter(c *gin.Context) {
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
func (h *PurchasesHandler) ClearFilters(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.View().ClearFilters(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vm.View().Current())
}

// Draft returns the purchase being assembled.
func (h *PurchasesHandler) Draft(c *gin.Context) {
	c.JSON(http.StatusOK, h.vm(c).Draft().View())
}

// AddLine adds a product line with its tax percentage to the draft.
func (h *PurchasesHandler) AddLine(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.vm(c)
	if !vm.AddLine(req.ProductID, req.Quantity, decimal.NewFromFloat(req.Tax)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product, quantity below 1 or negative tax"})
		return
	}
	c.JSON(http.StatusOK, vm.Draft().View())
}

// RemoveLine drops the line at index from the draft.
func (h *PurchasesHandler) RemoveLine(c *gin.Context) {
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

type providerRequest struct {
	ProviderID int `json:"proveedorId"`
}

// SetProvider selects the draft's provider.
func (h *PurchasesHandler) SetProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.vm(c)
	vm.Draft().SetProvider(req.ProviderID)
	c.JSON(http.StatusOK, vm.Draft().View())
}

// ResetDraft empties the draft.
func (h *PurchasesHandler) ResetDraft(c *gin.Context) {
	vm := h.vm(c)
	vm.Draft().Reset()
	c.JSON(http.StatusOK, vm.Draft().View())
}

// Register submits the draft.
func (h *PurchasesHandler) Register(c *gin.Context) {
	vm := h.vm(c)
	if err := vm.Register(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vm.View().Current())
}

// Update saves an edit of a purchase.
func (h *PurchasesHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var edit purchases.Edit
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

// Delete removes a purchase.
func (h *PurchasesHandler) Delete(c *gin.Context) {
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

// Duplicate submits a copy of a purchase.
func (h *PurchasesHandler) Duplicate(c *gin.Context) {
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
