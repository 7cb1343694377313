// Package lineitems assembles draft sales and purchases line by line.
package lineitems

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// Editor accumulates (product, quantity, unit price) lines. Totals are always
// recomputed from the lines.
type Editor struct {
	withTax bool

	mu    sync.Mutex
	lines []models.LineItem
}

// NewSaleEditor returns an editor whose lines never carry tax.
func NewSaleEditor() *Editor {
	return &Editor{}
}

// NewPurchaseEditor returns an editor that applies a per-line tax percentage.
func NewPurchaseEditor() *Editor {
	return &Editor{withTax: true}
}

// AddLine appends product × quantity. It is a no-op returning false when
// product is nil, quantity < 1 or taxPercent is negative. taxPercent is ignored
// by sale editors.
func (e *Editor) AddLine(product *models.Product, quantity int, taxPercent decimal.Decimal) bool {
	if product == nil || quantity < 1 || taxPercent.IsNegative() {
		return false
	}

	subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	tax := decimal.Zero
	if e.withTax {
		tax = subtotal.Mul(taxPercent).Div(hundred)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = append(e.lines, models.LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		Subtotal:    subtotal,
		Tax:         tax,
	})
	return true
}

// RemoveLine drops the line at index, reporting whether it existed.
func (e *Editor) RemoveLine(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.lines) {
		return false
	}
	e.lines = append(e.lines[:index], e.lines[index+1:]...)
	return true
}

// Total sums every line's subtotal plus tax.
func (e *Editor) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sumLines(e.lines)
}

// Lines returns a copy of the current lines.
func (e *Editor) Lines() []models.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.LineItem, len(e.lines))
	copy(out, e.lines)
	return out
}

// Len is the number of lines.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Reset empties the editor.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
}

// Payload converts the lines to their submission form.
func (e *Editor) Payload() []models.LineItemPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.LineItemPayload, 0, len(e.lines))
	for _, line := range e.lines {
		item := models.LineItemPayload{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.InexactFloat64(),
		}
		if e.withTax {
			tax := line.Tax.InexactFloat64()
			item.Tax = &tax
		}
		out = append(out, item)
	}
	return out
}

func sumLines(lines []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal).Add(line.Tax)
	}
	return total
}
