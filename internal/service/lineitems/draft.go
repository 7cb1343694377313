package lineitems

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// DraftView is the JSON shape of a draft for presentation.
type DraftView struct {
	PaymentMethod string             `json:"metodoPago,omitempty"`
	ProviderID    int                `json:"proveedorId,omitempty"`
	Fiscal        *models.FiscalData `json:"fiscal,omitempty"`
	Lines         []models.LineItem  `json:"detalles"`
	Total         decimal.Decimal    `json:"total"`
}

// SaleDraft is an in-progress sale.
type SaleDraft struct {
	*Editor

	mu            sync.Mutex
	paymentMethod string
	fiscal        models.FiscalData
}

// NewSaleDraft returns an empty sale draft.
func NewSaleDraft() *SaleDraft {
	return &SaleDraft{Editor: NewSaleEditor()}
}

// SetDetails replaces the payment method and fiscal fields.
func (d *SaleDraft) SetDetails(paymentMethod string, fiscal models.FiscalData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paymentMethod = strings.TrimSpace(paymentMethod)
	d.fiscal = fiscal
}

// View snapshots the draft.
func (d *SaleDraft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	fiscal := d.fiscal
	return DraftView{
		PaymentMethod: d.paymentMethod,
		Fiscal:        &fiscal,
		Lines:         d.Lines(),
		Total:         d.Total(),
	}
}

// Payload validates the draft and builds the creation body. A payment method
// and at least one line are required.
func (d *SaleDraft) Payload() (models.SalePayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.paymentMethod == "" || d.Len() == 0 {
		return models.SalePayload{}, fmt.Errorf("%w: a payment method and at least one product are required", models.ErrValidation)
	}

	return models.SalePayload{
		PaymentMethod: d.paymentMethod,
		Total:         d.Total().InexactFloat64(),
		Items:         d.Editor.Payload(),
		FiscalData:    d.fiscal,
	}, nil
}

// Reset returns the draft to its empty initial form.
func (d *SaleDraft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paymentMethod = ""
	d.fiscal = models.FiscalData{}
	d.Editor.Reset()
}

// PurchaseDraft is an in-progress purchase.
type PurchaseDraft struct {
	*Editor

	mu         sync.Mutex
	providerID int
}

// NewPurchaseDraft returns an empty purchase draft.
func NewPurchaseDraft() *PurchaseDraft {
	return &PurchaseDraft{Editor: NewPurchaseEditor()}
}

// SetProvider selects the provider the purchase is made from.
func (d *PurchaseDraft) SetProvider(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providerID = id
}

// View snapshots the draft.
func (d *PurchaseDraft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DraftView{
		ProviderID: d.providerID,
		Lines:      d.Lines(),
		Total:      d.Total(),
	}
}

// Payload validates the draft and builds the creation body. A provider and at
// least one line are required.
func (d *PurchaseDraft) Payload() (models.PurchasePayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.providerID <= 0 || d.Len() == 0 {
		return models.PurchasePayload{}, fmt.Errorf("%w: select a provider and at least one product", models.ErrValidation)
	}

	return models.PurchasePayload{
		ProviderID: d.providerID,
		Items:      d.Editor.Payload(),
	}, nil
}

// Reset returns the draft to its empty initial form.
func (d *PurchaseDraft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providerID = 0
	d.Editor.Reset()
}
