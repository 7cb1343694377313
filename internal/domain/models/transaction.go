package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StatusCompleted marks a sale whose payment was taken.
const StatusCompleted = "Completado"

// LineItem is one product line of a sale or purchase. Subtotal is always
// quantity × unit price; Tax only applies to purchases.
type LineItem struct {
	ProductID   int             `json:"productoId"`
	ProductName string          `json:"producto"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"iva"`
}

// FiscalData holds the invoicing fields of a sale. CFDIUse is passed through
// opaquely.
type FiscalData struct {
	Customer      string `json:"cliente,omitempty"`
	RFC           string `json:"rfc,omitempty"`
	BusinessName  string `json:"razonSocial,omitempty"`
	FiscalAddress string `json:"direccionFiscal,omitempty"`
	InvoiceEmail  string `json:"correoFactura,omitempty"`
	CFDIUse       string `json:"usoCfdi,omitempty"`
}

// Sale is a sale record as served by /api/ventas.
type Sale struct {
	ID            int             `json:"id"`
	Folio         string          `json:"folio"`
	Date          string          `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"estado"`
	PaymentMethod string          `json:"metodoPago"`
	Items         []LineItem      `json:"detalles"`
	FiscalData
}

// Purchase is a purchase record as served by /api/compras.
type Purchase struct {
	ID            int             `json:"id"`
	Folio         string          `json:"folio"`
	Date          string          `json:"fecha"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"estado"`
	PaymentMethod string          `json:"metodoPago"`
	ProviderID    int             `json:"proveedorId"`
	Provider      PartyRef        `json:"proveedor"`
	Items         []LineItem      `json:"detalles"`
}

// PartyRef is a counterpart reference the backend sends either as a bare
// display name or as an object.
type PartyRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"nombre,omitempty"`
}

// UnmarshalJSON accepts null, a string name, or an {id, nombre|name} object.
func (p *PartyRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = PartyRef{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = PartyRef{Name: name}
		return nil
	}

	var obj struct {
		ID     int    `json:"id"`
		Nombre string `json:"nombre"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	name := obj.Nombre
	if name == "" {
		name = obj.Name
	}
	*p = PartyRef{ID: obj.ID, Name: name}
	return nil
}

// LineItemPayload is a line as submitted to the backend.
type LineItemPayload struct {
	ProductID int      `json:"productoId"`
	Quantity  int      `json:"cantidad"`
	UnitPrice float64  `json:"precioUnitario"`
	Tax       *float64 `json:"iva,omitempty"`
}

// SalePayload is the body of POST /api/ventas. The backend assigns the folio.
type SalePayload struct {
	PaymentMethod string            `json:"metodoPago"`
	Total         float64           `json:"total,omitempty"`
	Folio         string            `json:"folio"`
	Items         []LineItemPayload `json:"detalles"`
	FiscalData
}

// MarshalJSON writes every fiscal key. Empty customer, RFC, business name and
// fiscal address go out as null; e-mail and CFDI use are sent as is.
func (p SalePayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PaymentMethod string            `json:"metodoPago"`
		Total         float64           `json:"total,omitempty"`
		Folio         string            `json:"folio"`
		Items         []LineItemPayload `json:"detalles"`
		Customer      *string           `json:"cliente"`
		RFC           *string           `json:"rfc"`
		BusinessName  *string           `json:"razonSocial"`
		FiscalAddress *string           `json:"direccionFiscal"`
		InvoiceEmail  string            `json:"correoFactura"`
		CFDIUse       string            `json:"usoCfdi"`
	}{
		PaymentMethod: p.PaymentMethod,
		Total:         p.Total,
		Folio:         p.Folio,
		Items:         p.Items,
		Customer:      nullable(p.Customer),
		RFC:           nullable(p.RFC),
		BusinessName:  nullable(p.BusinessName),
		FiscalAddress: nullable(p.FiscalAddress),
		InvoiceEmail:  p.InvoiceEmail,
		CFDIUse:       p.CFDIUse,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PurchasePayload is the body of POST /api/compras.
type PurchasePayload struct {
	ProviderID int               `json:"proveedorId"`
	Date       string            `json:"fecha,omitempty"`
	Items      []LineItemPayload `json:"detalles"`
}

// TransactionUpdate is the body of PUT /api/ventas/{id} and /api/compras/{id}.
type TransactionUpdate struct {
	Date          string            `json:"fecha"`
	PaymentMethod string            `json:"metodoPago"`
	Items         []LineItemPayload `json:"detalles"`
}
