package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/service/preferences"
)

// PreferencesHandler exposes the signed-in user's presentation settings.
type PreferencesHandler struct {
	svc    *preferences.Service
	logger *zap.Logger
}

// NewPreferencesHandler constructs the preferences HTTP adapter.
func NewPreferencesHandler(svc *preferences.Service, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{svc: svc, logger: logger}
}

// Get returns the session user's preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.svc.Get(c.Request.Context(), sessionOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update merges changes into the session user's preferences.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var update preferences.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	prefs, err := h.svc.Apply(c.Request.Context(), sessionOf(c), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
