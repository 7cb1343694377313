package models

import "github.com/shopspring/decimal"

// Product mirrors a catalogue entry served by /api/productos.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imagenUrl,omitempty"`
	Category    string          `json:"categoria,omitempty"`
}

// ProductForm carries the multipart fields for creating or updating a product.
type ProductForm struct {
	ID          int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Image       *ImageUpload
}

// ImageUpload is an image file attached to a product form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Provider is a supplier purchases are made from.
type Provider struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}
