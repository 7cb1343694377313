package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

const maxImageBytes = 10 << 20

// ProductsHandler exposes the product catalogue of a session.
type ProductsHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

// NewProductsHandler constructs the products HTTP adapter.
func NewProductsHandler(workspaces Workspaces, logger *zap.Logger) *ProductsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsHandler{workspaces: workspaces, logger: logger}
}

// List reloads the catalogue and returns the products matching ?q=.
func (h *ProductsHandler) List(c *gin.Context) {
	svc := h.workspaces.Get(sessionOf(c)).Products
	if err := svc.Load(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, svc.List(c.Query("q")))
}

// Search filters the loaded catalogue without refetching.
func (h *ProductsHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspaces.Get(sessionOf(c)).Products.List(c.Query("q")))
}

// Create adds a product from a multipart form.
func (h *ProductsHandler) Create(c *gin.Context) {
	form, err := productForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.workspaces.Get(sessionOf(c)).Products.Create(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update replaces a product from a multipart form.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	form, err := productForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.workspaces.Get(sessionOf(c)).Products.Update(c.Request.Context(), id, form); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a product.
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.workspaces.Get(sessionOf(c)).Products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productForm(c *gin.Context) (models.ProductForm, error) {
	form := models.ProductForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("descripcion"),
		Category:    c.PostForm("categoria"),
	}

	if v := strings.TrimSpace(c.PostForm("price")); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return form, fmt.Errorf("%w: price must be a number", models.ErrValidation)
		}
		form.Price = price
	}
	if v := strings.TrimSpace(c.PostForm("stock")); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return form, fmt.Errorf("%w: stock must be an integer", models.ErrValidation)
		}
		form.Stock = stock
	}

	header, err := c.FormFile("imagen")
	if err != nil {
		if err == http.ErrMissingFile {
			return form, nil
		}
		return form, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if header.Size > maxImageBytes {
		return form, fmt.Errorf("%w: image larger than %d MB", models.ErrValidation, maxImageBytes>>20)
	}

	f, err := header.Open()
	if err != nil {
		return form, fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return form, fmt.Errorf("read uploaded image: %w", err)
	}

	form.Image = &models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return form, nil
}
