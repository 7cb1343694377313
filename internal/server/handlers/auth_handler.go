package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/service/auth"
)

// AuthHandler opens and closes sessions.
type AuthHandler struct {
	svc        *auth.Service
	workspaces Workspaces
	logger     *zap.Logger
}

// NewAuthHandler constructs the authentication HTTP adapter.
func NewAuthHandler(svc *auth.Service, workspaces Workspaces, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, workspaces: workspaces, logger: logger}
}

// Login checks credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var form auth.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	grant, err := h.svc.Login(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

// Logout drops the session's workspace.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.workspaces.Clear(sessionOf(c).ID)
	c.Status(http.StatusNoContent)
}

// Me returns the session context.
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessionOf(c)
	c.JSON(http.StatusOK, gin.H{
		"session":     session,
		"displayName": session.DisplayName(),
		"isAdmin":     session.IsAdmin(),
	})
}

// Register creates an account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var form auth.RegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.svc.Register(c.Request.Context(), form); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusCreated)
}
