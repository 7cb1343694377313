// Package products manages the product catalogue screen: listing, local
// search and product create/update/delete with image uploads.
package products

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
)

// Gateway is the subset of the backend client product management needs.
type Gateway interface {
	CreateProduct(ctx context.Context, form models.ProductForm) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, form models.ProductForm) error
	DeleteProduct(ctx context.Context, id int) error
}

// Listing is a product prepared for display.
type Listing struct {
	models.Product
	DisplayImage string `json:"imagenDisplay"`
}

// Service serves one session's product screen over its shared catalogue.
type Service struct {
	gw            Gateway
	catalog       *catalog.Catalog
	imageBase     string
	imageMaxWidth uint
	logger        *zap.Logger
}

// NewService wires the product service. imageBase is the backend origin used
// to resolve relative image paths.
func NewService(gw Gateway, cat *catalog.Catalog, imageBase string, imageMaxWidth uint, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gw:            gw,
		catalog:       cat,
		imageBase:     imageBase,
		imageMaxWidth: imageMaxWidth,
		logger:        logger,
	}
}

// Load refreshes the catalogue from the backend.
func (s *Service) Load(ctx context.Context) error {
	return s.catalog.Refresh(ctx)
}

// List returns the products matching term, all of them when term is blank.
func (s *Service) List(term string) []Listing {
	found := s.catalog.Search(term)
	out := make([]Listing, 0, len(found))
	for _, p := range found {
		out = append(out, Listing{Product: p, DisplayImage: ImageURL(s.imageBase, p.ImageURL)})
	}
	return out
}

// Create validates and submits a new product, then refreshes the catalogue.
func (s *Service) Create(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	form, err := s.prepare(form)
	if err != nil {
		return nil, err
	}

	created, err := s.gw.CreateProduct(ctx, form)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("name", form.Name))

	if err := s.catalog.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Update validates and submits changes to product id, then refreshes the catalogue.
func (s *Service) Update(ctx context.Context, id int, form models.ProductForm) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id is required", models.ErrValidation)
	}
	form.ID = id
	form, err := s.prepare(form)
	if err != nil {
		return err
	}

	if err := s.gw.UpdateProduct(ctx, id, form); err != nil {
		return err
	}
	s.logger.Info("product updated", zap.Int("product_id", id))
	return s.catalog.Refresh(ctx)
}

// Delete removes product id and refreshes the catalogue.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.gw.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int("product_id", id))
	return s.catalog.Refresh(ctx)
}

func (s *Service) prepare(form models.ProductForm) (models.ProductForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	switch {
	case form.Name == "":
		return form, fmt.Errorf("%w: product name is required", models.ErrValidation)
	case form.Price.IsNegative():
		return form, fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	case form.Stock < 0:
		return form, fmt.Errorf("%w: stock cannot be negative", models.ErrValidation)
	}

	if form.Image != nil {
		if !isImageName(form.Image.Filename) {
			return form, fmt.Errorf("%w: image must be PNG or JPEG", models.ErrValidation)
		}
		img, err := downscale(form.Image, s.imageMaxWidth)
		if err != nil {
			return form, err
		}
		form.Image = img
	}
	return form, nil
}
