package sales

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
)

type fakeGateway struct {
	mu        sync.Mutex
	sales     []models.Sale
	created   []models.SalePayload
	updated   map[int]models.TransactionUpdate
	deleted   []int
	lists     int
	createErr error
	deleteErr error
	listErr   error
}

func (f *fakeGateway) ListSales(context.Context, models.FilterCriteria) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Sale, len(f.sales))
	copy(out, f.sales)
	return out, nil
}

func (f *fakeGateway) CreateSale(_ context.Context, p models.SalePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	f.sales = append(f.sales, models.Sale{ID: len(f.sales) + 100})
	return nil
}

func (f *fakeGateway) UpdateSale(_ context.Context, id int, p models.TransactionUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[int]models.TransactionUpdate{}
	}
	f.updated[id] = p
	return nil
}

func (f *fakeGateway) DeleteSale(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.sales[:0]
	for _, s := range f.sales {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.sales = kept
	return nil
}

type fakeMailer struct {
	sent []models.Sale
}

func (m *fakeMailer) SendInvoiceNotice(_ context.Context, sale models.Sale) error {
	m.sent = append(m.sent, sale)
	return nil
}

func products(context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: 1, Name: "Maize", Price: decimal.NewFromInt(100)},
		{ID: 2, Name: "Beans", Price: decimal.NewFromInt(50)},
	}, nil
}

func line(name string, qty int, price int64) models.LineItem {
	return models.LineItem{ProductName: name, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func newViewModel(t *testing.T, gw *fakeGateway, mailer InvoiceMailer) *ViewModel {
	t.Helper()
	vm := NewViewModel(gw, catalog.New(products), 5, mailer, nil)
	if err := vm.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return vm
}

func TestRegisterResetsDraftAndReloads(t *testing.T) {
	gw := &fakeGateway{}
	vm := newViewModel(t, gw, nil)

	if !vm.AddLine(1, 2) || !vm.AddLine(2, 1) {
		t.Fatal("AddLine rejected catalogue products")
	}
	if vm.AddLine(99, 1) {
		t.Error("AddLine accepted an unknown product")
	}
	vm.Draft().SetDetails("Efectivo", models.FiscalData{})

	if err := vm.Register(context.Background()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(gw.created) != 1 || gw.created[0].Total != 250 || len(gw.created[0].Items) != 2 {
		t.Fatalf("created = %+v", gw.created)
	}
	if vm.Draft().Len() != 0 {
		t.Error("draft not reset after registration")
	}
	if len(vm.View().Items()) != 1 {
		t.Errorf("list not reloaded: %v", vm.View().Items())
	}
}

func TestRegisterValidationNeverReachesBackend(t *testing.T) {
	gw := &fakeGateway{}
	vm := newViewModel(t, gw, nil)

	if err := vm.Register(context.Background()); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(gw.created) != 0 {
		t.Error("invalid draft was submitted")
	}
}

func TestRegisterFailureKeepsDraft(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("stock insuficiente")}
	vm := newViewModel(t, gw, nil)
	vm.AddLine(1, 1)
	vm.Draft().SetDetails("Tarjeta", models.FiscalData{})

	if err := vm.Register(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if vm.Draft().Len() != 1 {
		t.Error("draft cleared after failed registration")
	}
}

func TestDuplicatePayloadRules(t *testing.T) {
	cat := catalog.New(products)
	if err := cat.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	sale := models.Sale{
		ID:            7,
		Status:        models.StatusCompleted,
		PaymentMethod: "Tarjeta",
		Items:         []models.LineItem{line("Maize", 2, 90)},
		FiscalData:    models.FiscalData{RFC: "XAXX010101000", CFDIUse: "G03"},
	}
	payload, failures := DuplicatePayload(sale, cat)
	if len(failures) != 0 {
		t.Fatalf("failures = %v", failures)
	}
	if payload.PaymentMethod != "Tarjeta" || payload.RFC != "XAXX010101000" || payload.CFDIUse != "G03" {
		t.Errorf("payload = %+v", payload)
	}
	if got := payload.Items[0]; got.ProductID != 1 || got.Quantity != 2 || got.UnitPrice != 90 || got.Tax != nil {
		t.Errorf("line = %+v", got)
	}

	sale.Status = "Pendiente"
	payload, _ = DuplicatePayload(sale, cat)
	if payload.PaymentMethod != "" {
		t.Errorf("pending sale kept payment method %q", payload.PaymentMethod)
	}
}

func TestDuplicateBlocksUnknownProducts(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{{
		ID:     3,
		Status: models.StatusCompleted,
		Items:  []models.LineItem{line("Maize", 1, 100), line("Discontinued", 1, 5)},
	}}}
	vm := newViewModel(t, gw, nil)

	err := vm.Duplicate(context.Background(), 3)
	if !errors.Is(err, catalog.ErrUnresolvedProduct) {
		t.Fatalf("err = %v, want ErrUnresolvedProduct", err)
	}
	if len(gw.created) != 0 {
		t.Error("duplicate with unresolved lines was submitted")
	}
}

func TestDuplicateSubmitsAndReloads(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{{
		ID:            3,
		Status:        models.StatusCompleted,
		PaymentMethod: "Efectivo",
		Items:         []models.LineItem{line("Beans", 4, 50)},
	}}}
	vm := newViewModel(t, gw, nil)

	if err := vm.Duplicate(context.Background(), 3); err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if len(gw.created) != 1 || gw.created[0].Items[0].ProductID != 2 {
		t.Fatalf("created = %+v", gw.created)
	}
	if len(vm.View().Items()) != 2 {
		t.Errorf("items = %d, want 2 after reload", len(vm.View().Items()))
	}

	if err := vm.Duplicate(context.Background(), 404); !errors.Is(err, ErrSaleNotFound) {
		t.Errorf("missing sale err = %v", err)
	}
}

func TestDuplicateReportsSuccessWhenReloadFails(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{{
		ID:    3,
		Items: []models.LineItem{line("Maize", 1, 100)},
	}}}
	vm := newViewModel(t, gw, nil)
	gw.listErr = errors.New("connection reset")

	if err := vm.Duplicate(context.Background(), 3); err != nil {
		t.Fatalf("Duplicate err = %v, want nil once the copy is created", err)
	}
	if len(gw.created) != 1 {
		t.Fatalf("created = %d, want 1", len(gw.created))
	}
}

func TestUpdateResolvesMissingIDs(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{{ID: 5}}}
	vm := newViewModel(t, gw, nil)

	edit := Edit{
		Date:          "2025-03-01",
		PaymentMethod: "Efectivo",
		Items: []models.LineItem{
			{ProductID: 2, ProductName: "renamed", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
			line("Maize", 3, 100),
		},
	}
	if err := vm.Update(context.Background(), 5, edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := gw.updated[5]
	if got.Date != "2025-03-01" || got.Items[0].ProductID != 2 || got.Items[1].ProductID != 1 {
		t.Errorf("update = %+v", got)
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{{ID: 1}, {ID: 2}}, deleteErr: errors.New("forbidden")}
	vm := newViewModel(t, gw, nil)

	if err := vm.Delete(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if len(vm.View().Items()) != 2 {
		t.Errorf("items = %v", vm.View().Items())
	}

	gw.deleteErr = nil
	if err := vm.Delete(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if items := vm.View().Items(); len(items) != 1 || items[0].ID != 2 {
		t.Errorf("items after delete = %v", items)
	}
}

func TestEmailInvoice(t *testing.T) {
	gw := &fakeGateway{sales: []models.Sale{
		{ID: 1, Folio: "V-1", FiscalData: models.FiscalData{InvoiceEmail: "cliente@test.mx"}},
		{ID: 2, Folio: "V-2"},
	}}

	noMail := newViewModel(t, gw, nil)
	if err := noMail.EmailInvoice(context.Background(), 1); !errors.Is(err, ErrMailUnavailable) {
		t.Errorf("err = %v, want ErrMailUnavailable", err)
	}

	mailer := &fakeMailer{}
	vm := newViewModel(t, gw, mailer)
	if err := vm.EmailInvoice(context.Background(), 2); !errors.Is(err, models.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if err := vm.EmailInvoice(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].Folio != "V-1" {
		t.Errorf("sent = %+v", mailer.sent)
	}
}
