package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/service/users"
)

// UsersHandler exposes user administration.
type UsersHandler struct {
	svc    *users.Service
	logger *zap.Logger
}

// NewUsersHandler constructs the users HTTP adapter.
func NewUsersHandler(svc *users.Service, logger *zap.Logger) *UsersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersHandler{svc: svc, logger: logger}
}

// List returns every account.
func (h *UsersHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), sessionOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type roleRequest struct {
	NewRole string `json:"newRole" binding:"required"`
}

// UpdateRole changes a user's role.
func (h *UsersHandler) UpdateRole(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.svc.UpdateRole(c.Request.Context(), sessionOf(c), id, req.NewRole); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
