package lineitems

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

func product(id int, name string, price int64) *models.Product {
	return &models.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func TestTotalFollowsAddAndRemove(t *testing.T) {
	e := NewSaleEditor()
	e.AddLine(product(1, "Maize", 100), 2, decimal.Zero)
	e.AddLine(product(2, "Beans", 50), 1, decimal.Zero)

	if got := e.Total(); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("total = %s, want 250", got)
	}

	if !e.RemoveLine(1) {
		t.Fatal("RemoveLine(1) = false")
	}
	if got := e.Total(); !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("total after remove = %s, want 200", got)
	}
}

func TestAddLineProducesExpectedItem(t *testing.T) {
	e := NewPurchaseEditor()
	if !e.AddLine(product(1, "Maize", 100), 2, decimal.Zero) {
		t.Fatal("AddLine rejected a valid line")
	}

	lines := e.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	got := lines[0]
	if got.ProductID != 1 || got.Quantity != 2 ||
		!got.UnitPrice.Equal(decimal.NewFromInt(100)) ||
		!got.Subtotal.Equal(decimal.NewFromInt(200)) ||
		!got.Tax.IsZero() {
		t.Errorf("line = %+v", got)
	}
	if !e.Total().Equal(decimal.NewFromInt(200)) {
		t.Errorf("total = %s, want 200", e.Total())
	}
}

func TestAddLineRejectsInvalidInput(t *testing.T) {
	e := NewPurchaseEditor()
	cases := []struct {
		name string
		p    *models.Product
		qty  int
		tax  decimal.Decimal
	}{
		{"no product", nil, 1, decimal.Zero},
		{"zero quantity", product(1, "Maize", 10), 0, decimal.Zero},
		{"negative quantity", product(1, "Maize", 10), -3, decimal.Zero},
		{"negative tax", product(1, "Maize", 10), 1, decimal.NewFromInt(-16)},
	}
	for _, tc := range cases {
		if e.AddLine(tc.p, tc.qty, tc.tax) {
			t.Errorf("%s: AddLine accepted", tc.name)
		}
	}
	if e.Len() != 0 || !e.Total().IsZero() {
		t.Errorf("editor mutated by rejected adds: %v", e.Lines())
	}
}

func TestPurchaseTaxIncludedInTotal(t *testing.T) {
	e := NewPurchaseEditor()
	e.AddLine(product(1, "Maize", 100), 2, decimal.NewFromInt(16))

	line := e.Lines()[0]
	if !line.Tax.Equal(decimal.NewFromInt(32)) {
		t.Errorf("tax = %s, want 32", line.Tax)
	}
	if !e.Total().Equal(decimal.NewFromInt(232)) {
		t.Errorf("total = %s, want 232", e.Total())
	}

	payload := e.Payload()
	if payload[0].Tax == nil || *payload[0].Tax != 32 {
		t.Errorf("payload tax = %v", payload[0].Tax)
	}
}

func TestSaleEditorIgnoresTax(t *testing.T) {
	e := NewSaleEditor()
	e.AddLine(product(1, "Maize", 100), 1, decimal.NewFromInt(16))
	if !e.Total().Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", e.Total())
	}
	if e.Payload()[0].Tax != nil {
		t.Error("sale payload must not carry tax")
	}
}

func TestRemoveLineOutOfRange(t *testing.T) {
	e := NewSaleEditor()
	e.AddLine(product(1, "Maize", 100), 1, decimal.Zero)
	for _, i := range []int{-1, 1, 5} {
		if e.RemoveLine(i) {
			t.Errorf("RemoveLine(%d) = true", i)
		}
	}
	if e.Len() != 1 {
		t.Errorf("len = %d", e.Len())
	}
}

func TestSaleDraftValidationAndReset(t *testing.T) {
	d := NewSaleDraft()
	if _, err := d.Payload(); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("empty draft err = %v, want ErrValidation", err)
	}

	d.AddLine(product(1, "Maize", 100), 2, decimal.Zero)
	if _, err := d.Payload(); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("draft without payment method err = %v", err)
	}

	d.SetDetails(" Efectivo ", models.FiscalData{RFC: "XAXX010101000"})
	payload, err := d.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if payload.PaymentMethod != "Efectivo" || payload.Total != 200 || payload.RFC != "XAXX010101000" || len(payload.Items) != 1 {
		t.Errorf("payload = %+v", payload)
	}

	d.Reset()
	view := d.View()
	if view.PaymentMethod != "" || len(view.Lines) != 0 || !view.Total.IsZero() || view.Fiscal.RFC != "" {
		t.Errorf("draft not reset: %+v", view)
	}
}

func TestPurchaseDraftRequiresProvider(t *testing.T) {
	d := NewPurchaseDraft()
	d.AddLine(product(1, "Maize", 100), 1, decimal.Zero)
	if _, err := d.Payload(); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	d.SetProvider(3)
	payload, err := d.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if payload.ProviderID != 3 || len(payload.Items) != 1 {
		t.Errorf("payload = %+v", payload)
	}

	d.Reset()
	if v := d.View(); v.ProviderID != 0 || len(v.Lines) != 0 {
		t.Errorf("draft not reset: %+v", v)
	}
}
