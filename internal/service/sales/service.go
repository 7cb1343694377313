// Package sales is the view-model behind the sales screen: the filtered sales
// list, the draft sale being assembled and the per-sale actions.
package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
	"github.com/mamadbah2/posadmin/internal/service/collection"
	"github.com/mamadbah2/posadmin/internal/service/lineitems"
)

var (
	// ErrSaleNotFound reports an id absent from the loaded sales.
	ErrSaleNotFound = errors.New("sale not found in loaded collection")
	// ErrMailUnavailable reports that invoice e-mail is not configured.
	ErrMailUnavailable = errors.New("invoice e-mail is not configured")
)

// Gateway is the subset of the backend client the sales screen needs.
type Gateway interface {
	ListSales(ctx context.Context, criteria models.FilterCriteria) ([]models.Sale, error)
	CreateSale(ctx context.Context, payload models.SalePayload) error
	UpdateSale(ctx context.Context, id int, payload models.TransactionUpdate) error
	DeleteSale(ctx context.Context, id int) error
}

// InvoiceMailer sends the invoice notice for a sale.
type InvoiceMailer interface {
	SendInvoiceNotice(ctx context.Context, sale models.Sale) error
}

// Edit is a user edit of an existing sale.
type Edit struct {
	Date          string            `json:"fecha"`
	PaymentMethod string            `json:"metodoPago"`
	Items         []models.LineItem `json:"detalles"`
}

// ViewModel holds one session's sales screen state.
type ViewModel struct {
	gw      Gateway
	catalog *catalog.Catalog
	view    *collection.View[models.Sale]
	draft   *lineitems.SaleDraft
	mailer  InvoiceMailer
	logger  *zap.Logger
}

// NewViewModel wires a sales view-model. mailer may be nil.
func NewViewModel(gw Gateway, cat *catalog.Catalog, pageSize int, mailer InvoiceMailer, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		gw:      gw,
		catalog: cat,
		view:    collection.New(gw.ListSales, pageSize, logger),
		draft:   lineitems.NewSaleDraft(),
		mailer:  mailer,
		logger:  logger,
	}
}

// Init loads the unfiltered sales and the product catalogue concurrently.
func (vm *ViewModel) Init(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := vm.view.Load(gctx, vm.view.Criteria())
		return err
	})
	g.Go(func() error {
		return vm.catalog.Refresh(gctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("init sales: %w", err)
	}
	return nil
}

// View exposes the filtered, paginated sales collection.
func (vm *ViewModel) View() *collection.View[models.Sale] {
	return vm.view
}

// Draft exposes the sale being assembled.
func (vm *ViewModel) Draft() *lineitems.SaleDraft {
	return vm.draft
}

// AddLine adds a catalogue product to the draft. Unknown products and
// quantities below 1 are ignored and reported as false.
func (vm *ViewModel) AddLine(productID, quantity int) bool {
	product, ok := vm.catalog.Find(productID)
	if !ok {
		return false
	}
	return vm.draft.AddLine(&product, quantity, decimal.Zero)
}

// Register submits the draft. Validation failures never reach the backend;
// a successful submission resets the draft and reloads the list.
func (vm *ViewModel) Register(ctx context.Context) error {
	payload, err := vm.draft.Payload()
	if err != nil {
		return err
	}

	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		if err := vm.gw.CreateSale(ctx, payload); err != nil {
			vm.logger.Warn("sale registration failed", zap.Error(err))
			return err
		}
		vm.draft.Reset()
		vm.logger.Info("sale registered", zap.Int("lines", len(payload.Items)))
		return nil
	})
}

// Update saves an edit of a loaded sale. Lines without a product id are
// resolved by name; unknown names block the update.
func (vm *ViewModel) Update(ctx context.Context, id int, edit Edit) error {
	items, failures := vm.catalog.BuildLines(edit.Items, catalog.LineOptions{PreferIDs: true})
	if err := catalog.UnresolvedError(failures); err != nil {
		return err
	}

	payload := models.TransactionUpdate{
		Date:          edit.Date,
		PaymentMethod: edit.PaymentMethod,
		Items:         items,
	}
	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		return vm.gw.UpdateSale(ctx, id, payload)
	})
}

// Delete removes a sale and reloads. On failure the list is unchanged.
func (vm *ViewModel) Delete(ctx context.Context, id int) error {
	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		return vm.gw.DeleteSale(ctx, id)
	})
}

// Duplicate submits a copy of a loaded sale as a new sale.
func (vm *ViewModel) Duplicate(ctx context.Context, id int) error {
	sale, ok := vm.find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrSaleNotFound, id)
	}

	payload, failures := DuplicatePayload(sale, vm.catalog)
	if err := catalog.UnresolvedError(failures); err != nil {
		vm.logger.Warn("sale duplicate blocked", zap.Int("sale_id", id), zap.Error(err))
		return err
	}

	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		return vm.gw.CreateSale(ctx, payload)
	})
}

// EmailInvoice sends the invoice notice for a loaded sale to its invoice address.
func (vm *ViewModel) EmailInvoice(ctx context.Context, id int) error {
	if vm.mailer == nil {
		return ErrMailUnavailable
	}
	sale, ok := vm.find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrSaleNotFound, id)
	}
	if sale.InvoiceEmail == "" {
		return fmt.Errorf("%w: sale %s has no invoice e-mail", models.ErrValidation, sale.Folio)
	}
	return vm.mailer.SendInvoiceNotice(ctx, sale)
}

// DuplicatePayload rebuilds sale as a creation payload. Every line is resolved
// by product name; the payment method is kept only for completed sales and the
// fiscal fields are copied verbatim. Failed resolutions leave product id 0 on
// their line and are returned.
func DuplicatePayload(sale models.Sale, cat *catalog.Catalog) (models.SalePayload, []catalog.Resolution) {
	items, failures := cat.BuildLines(sale.Items, catalog.LineOptions{})

	paymentMethod := ""
	if sale.Status == models.StatusCompleted {
		paymentMethod = sale.PaymentMethod
	}

	return models.SalePayload{
		PaymentMethod: paymentMethod,
		Items:         items,
		FiscalData:    sale.FiscalData,
	}, failures
}

func (vm *ViewModel) find(id int) (models.Sale, bool) {
	return vm.view.Find(func(s models.Sale) bool { return s.ID == id })
}
