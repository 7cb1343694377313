package posapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const (
	productsPath  = "/api/productos"
	providersPath = "/api/proveedores"
)

func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, productsPath, &products, nil); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *APIClient) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	product := new(models.Product)
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", productsPath, id), product, nil); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

// CreateProduct posts the form as multipart data, which the backend binds from form fields.
func (c *APIClient) CreateProduct(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	product := new(models.Product)
	if err := c.do(ctx, http.MethodPost, productsPath, product, productFormBody(form, false)); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, id int, form models.ProductForm) error {
	form.ID = id
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", productsPath, id), nil, productFormBody(form, true)); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", productsPath, id), nil, nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) ListProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := c.do(ctx, http.MethodGet, providersPath, &providers, nil); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

func productFormBody(form models.ProductForm, withID bool) func(*resty.Request) {
	return func(r *resty.Request) {
		fields := map[string]string{
			"name":        form.Name,
			"descripcion": form.Description,
			"price":       form.Price.String(),
			"stock":       strconv.Itoa(form.Stock),
			"categoria":   form.Category,
		}
		if withID {
			fields["id"] = strconv.Itoa(form.ID)
		}
		r.SetMultipartFormData(fields)

		if form.Image != nil {
			r.SetMultipartField("imagen", form.Image.Filename, form.Image.ContentType, bytes.NewReader(form.Image.Data))
		}
	}
}
