package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// ErrUnresolvedProduct blocks a submission whose lines reference products the
// catalogue does not know.
var ErrUnresolvedProduct = errors.New("line items reference unknown products")

// LineOptions controls how recorded lines are rebuilt into payload lines.
type LineOptions struct {
	// PreferIDs keeps a line's own product id when it is set and only falls
	// back to a name lookup when it is 0.
	PreferIDs bool
	// WithTax carries each line's tax into the payload.
	WithTax bool
}

// BuildLines rebuilds recorded lines into payload lines, re-resolving product
// references by name against the snapshot. Lines that fail to resolve are kept
// with product id 0 and reported in the returned failures.
func (c *Catalog) BuildLines(lines []models.LineItem, opts LineOptions) ([]models.LineItemPayload, []Resolution) {
	out := make([]models.LineItemPayload, 0, len(lines))
	var failures []Resolution

	for _, line := range lines {
		productID := line.ProductID
		if !opts.PreferIDs || productID == 0 {
			res := c.Resolve(line.ProductName)
			if !res.OK() {
				failures = append(failures, res)
			}
			productID = res.ProductID
		}

		item := models.LineItemPayload{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.InexactFloat64(),
		}
		if opts.WithTax {
			tax := line.Tax.InexactFloat64()
			item.Tax = &tax
		}
		out = append(out, item)
	}

	return out, failures
}

// UnresolvedError summarizes failures as an ErrUnresolvedProduct, or nil.
func UnresolvedError(failures []Resolution) error {
	if len(failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, fmt.Sprintf("%q", f.Name))
	}
	return fmt.Errorf("%w: %s", ErrUnresolvedProduct, strings.Join(names, ", "))
}
