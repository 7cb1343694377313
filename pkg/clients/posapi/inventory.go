package posapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const inventoryPath = "/api/inventario"

func (c *APIClient) ListMovements(ctx context.Context) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	if err := c.do(ctx, http.MethodGet, inventoryPath, &movements, nil); err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	return movements, nil
}

func (c *APIClient) CreateMovement(ctx context.Context, movement models.InventoryMovement) error {
	if err := c.do(ctx, http.MethodPost, inventoryPath, nil, jsonBody(movement)); err != nil {
		return fmt.Errorf("register inventory movement: %w", err)
	}
	return nil
}
