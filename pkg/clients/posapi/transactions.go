package posapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const (
	salesPath     = "/api/ventas"
	purchasesPath = "/api/compras"
)

// ListSales returns every sale when criteria is empty and the server-side
// filtered set otherwise.
func (c *APIClient) ListSales(ctx context.Context, criteria models.FilterCriteria) ([]models.Sale, error) {
	var sales []models.Sale
	path, configure := filteredPath(salesPath, criteria)
	if err := c.do(ctx, http.MethodGet, path, &sales, configure); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (c *APIClient) CreateSale(ctx context.Context, payload models.SalePayload) error {
	if err := c.do(ctx, http.MethodPost, salesPath, nil, jsonBody(payload)); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (c *APIClient) UpdateSale(ctx context.Context, id int, payload models.TransactionUpdate) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", salesPath, id), nil, jsonBody(payload)); err != nil {
		return fmt.Errorf("update sale %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) DeleteSale(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", salesPath, id), nil, nil); err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	return nil
}

// ListPurchases mirrors ListSales for purchases.
func (c *APIClient) ListPurchases(ctx context.Context, criteria models.FilterCriteria) ([]models.Purchase, error) {
	var purchases []models.Purchase
	path, configure := filteredPath(purchasesPath, criteria)
	if err := c.do(ctx, http.MethodGet, path, &purchases, configure); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

func (c *APIClient) CreatePurchase(ctx context.Context, payload models.PurchasePayload) error {
	if err := c.do(ctx, http.MethodPost, purchasesPath, nil, jsonBody(payload)); err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (c *APIClient) UpdatePurchase(ctx context.Context, id int, payload models.TransactionUpdate) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", purchasesPath, id), nil, jsonBody(payload)); err != nil {
		return fmt.Errorf("update purchase %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) DeletePurchase(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", purchasesPath, id), nil, nil); err != nil {
		return fmt.Errorf("delete purchase %d: %w", id, err)
	}
	return nil
}

func filteredPath(base string, criteria models.FilterCriteria) (string, func(*resty.Request)) {
	if criteria.IsEmpty() {
		return base, nil
	}
	params := criteria.QueryParams()
	return base + "/filtradas", func(r *resty.Request) {
		r.SetQueryParams(params)
	}
}
