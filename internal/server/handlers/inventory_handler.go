package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/inventory"
)

// InventoryHandler exposes a session's stock movements.
type InventoryHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

// NewInventoryHandler constructs the inventory HTTP adapter.
func NewInventoryHandler(workspaces Workspaces, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{workspaces: workspaces, logger: logger}
}

type movementView struct {
	models.InventoryMovement
	ProductName string `json:"productoNombre"`
}

func (h *InventoryHandler) render(c *gin.Context, status int, vm *inventory.ViewModel) {
	movements := vm.Movements()
	out := make([]movementView, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementView{InventoryMovement: m, ProductName: vm.ProductName(m.ProductID)})
	}
	c.JSON(status, out)
}

// List loads movements and products.
func (h *InventoryHandler) List(c *gin.Context) {
	vm := h.workspaces.Get(sessionOf(c)).Inventory
	if err := vm.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.render(c, http.StatusOK, vm)
}

// Register records a stock movement.
func (h *InventoryHandler) Register(c *gin.Context) {
	var form inventory.MovementForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	vm := h.workspaces.Get(sessionOf(c)).Inventory
	if err := vm.Register(c.Request.Context(), form); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.render(c, http.StatusCreated, vm)
}
