package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MonthAll is the month selector value meaning "no month filter".
const MonthAll = "Todo"

// Months lists month names in calendar order as the backend's users know them.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FilterCriteria is a set of optional predicates combined with AND.
// Zero-valued fields are not applied.
type FilterCriteria struct {
	Status   string           `json:"estado,omitempty"`
	Year     int              `json:"year,omitempty"`
	Month    int              `json:"mes,omitempty"`
	MinTotal *decimal.Decimal `json:"minTotal,omitempty"`
	MaxTotal *decimal.Decimal `json:"maxTotal,omitempty"`
	Product  string           `json:"producto,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Equal(FilterCriteria{})
}

// Equal compares two criteria by value.
func (c FilterCriteria) Equal(o FilterCriteria) bool {
	return c.Status == o.Status &&
		c.Year == o.Year &&
		c.Month == o.Month &&
		c.Product == o.Product &&
		decimalPtrEqual(c.MinTotal, o.MinTotal) &&
		decimalPtrEqual(c.MaxTotal, o.MaxTotal)
}

// QueryParams renders the populated predicates as query parameters for the
// /filtradas endpoints.
func (c FilterCriteria) QueryParams() map[string]string {
	params := make(map[string]string)
	if c.Status != "" {
		params["estado"] = c.Status
	}
	if c.Year != 0 {
		params["year"] = strconv.Itoa(c.Year)
	}
	if c.Month != 0 {
		params["mes"] = strconv.Itoa(c.Month)
	}
	if c.MinTotal != nil {
		params["minTotal"] = c.MinTotal.String()
	}
	if c.MaxTotal != nil {
		params["maxTotal"] = c.MaxTotal.String()
	}
	if c.Product != "" {
		params["producto"] = c.Product
	}
	return params
}

// ParseMonth accepts a month number ("3") or name ("Marzo", any case).
// Empty input and MonthAll yield 0, meaning no month filter.
func ParseMonth(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, MonthAll) {
		return 0, nil
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range", n)
		}
		return n, nil
	}

	for i, name := range Months {
		if strings.EqualFold(name, value) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", value)
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
