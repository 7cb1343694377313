// Package catalog keeps the product list a workspace has loaded and resolves
// line items against it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// UnknownName labels product ids missing from the catalogue.
const UnknownName = "—"

// ErrProductNotFound reports a product name absent from the loaded catalogue.
var ErrProductNotFound = errors.New("product not found in catalogue")

// Loader fetches the current product list.
type Loader func(ctx context.Context) ([]models.Product, error)

// Resolution is the outcome of mapping a product display name to its id.
// ProductID is 0 exactly when Err is set.
type Resolution struct {
	Name      string
	ProductID int
	Err       error
}

// OK reports whether the name resolved.
func (r Resolution) OK() bool {
	return r.Err == nil
}

// Catalog is a snapshot of the backend product list.
type Catalog struct {
	load Loader

	mu       sync.RWMutex
	products []models.Product
}

// New returns an empty catalogue filled by load on Refresh.
func New(load Loader) *Catalog {
	return &Catalog{load: load}
}

// Refresh replaces the snapshot. On error the previous snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	products, err := c.load(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalogue: %w", err)
	}
	c.Replace(products)
	return nil
}

// Replace swaps the snapshot for products.
func (c *Catalog) Replace(products []models.Product) {
	cp := make([]models.Product, len(products))
	copy(cp, products)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = cp
}

// Products returns a copy of the snapshot.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find looks a product up by id.
func (c *Catalog) Find(id int) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// NameOf returns the product name for id, or UnknownName.
func (c *Catalog) NameOf(id int) string {
	if p, ok := c.Find(id); ok {
		return p.Name
	}
	return UnknownName
}

// Resolve maps an exact display name to its product id.
func (c *Catalog) Resolve(name string) Resolution {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.Name == name {
			return Resolution{Name: name, ProductID: p.ID}
		}
	}
	return Resolution{Name: name, Err: fmt.Errorf("%w: %q", ErrProductNotFound, name)}
}

// Search filters the snapshot by term over name, description and category,
// ignoring case and accents. An empty term returns everything.
func (c *Catalog) Search(term string) []models.Product {
	return Search(c.Products(), term)
}

// Search filters products by term over name, description and category,
// ignoring case and accents.
func Search(products []models.Product, term string) []models.Product {
	needle := fold(term)
	if needle == "" {
		out := make([]models.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold(p.Name), needle) ||
			strings.Contains(fold(p.Description), needle) ||
			strings.Contains(fold(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}
