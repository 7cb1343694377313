package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/auth"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
	"github.com/mamadbah2/posadmin/internal/service/collection"
	"github.com/mamadbah2/posadmin/internal/service/purchases"
	"github.com/mamadbah2/posadmin/internal/service/sales"
	"github.com/mamadbah2/posadmin/internal/service/users"
	"github.com/mamadbah2/posadmin/pkg/clients/posapi"
)

// respondError maps service and gateway errors onto HTTP responses. Backend
// rejections (4xx) carry the backend's own message so it can be shown to the
// user; backend failures are reported generically.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func classify(err error) (int, string) {
	var apiErr *posapi.APIError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, catalog.ErrUnresolvedProduct):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid authorization token"
	case errors.Is(err, users.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, sales.ErrSaleNotFound), errors.Is(err, purchases.ErrPurchaseNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, collection.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case errors.Is(err, sales.ErrMailUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return http.StatusUnauthorized, apiErr.Message
		case apiErr.StatusCode == http.StatusNotFound:
			return http.StatusNotFound, apiErr.Message
		case apiErr.StatusCode < http.StatusInternalServerError:
			return http.StatusUnprocessableEntity, apiErr.Message
		}
		return http.StatusBadGateway, "pos backend unavailable"
	case errors.Is(err, context.Canceled):
		return 499, "request canceled"
	default:
		return http.StatusBadGateway, "pos backend unavailable"
	}
}
