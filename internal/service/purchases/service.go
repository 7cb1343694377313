// Package purchases is the view-model behind the purchases screen.
package purchases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
	"github.com/mamadbah2/posadmin/internal/service/collection"
	"github.com/mamadbah2/posadmin/internal/service/lineitems"
)

// ErrPurchaseNotFound reports an id absent from the loaded purchases.
var ErrPurchaseNotFound = errors.New("purchase not found in loaded collection")

// Gateway is the subset of the backend client the purchases screen needs.
type Gateway interface {
	ListPurchases(ctx context.Context, criteria models.FilterCriteria) ([]models.Purchase, error)
	CreatePurchase(ctx context.Context, payload models.PurchasePayload) error
	UpdatePurchase(ctx context.Context, id int, payload models.TransactionUpdate) error
	DeletePurchase(ctx context.Context, id int) error
	ListProviders(ctx context.Context) ([]models.Provider, error)
}

// Edit is a user edit of an existing purchase.
type Edit struct {
	Date          string            `json:"fecha"`
	PaymentMethod string            `json:"metodoPago"`
	Items         []models.LineItem `json:"detalles"`
}

// ViewModel holds one session's purchases screen state.
type ViewModel struct {
	gw      Gateway
	catalog *catalog.Catalog
	view    *collection.View[models.Purchase]
	draft   *lineitems.PurchaseDraft
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	providers []models.Provider
}

// NewViewModel wires a purchases view-model.
func NewViewModel(gw Gateway, cat *catalog.Catalog, pageSize int, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		gw:      gw,
		catalog: cat,
		view:    collection.New(gw.ListPurchases, pageSize, logger),
		draft:   lineitems.NewPurchaseDraft(),
		logger:  logger,
		now:     time.Now,
	}
}

// Init loads purchases, products and providers concurrently.
func (vm *ViewModel) Init(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := vm.view.Load(gctx, vm.view.Criteria())
		return err
	})
	g.Go(func() error {
		return vm.catalog.Refresh(gctx)
	})
	g.Go(func() error {
		providers, err := vm.gw.ListProviders(gctx)
		if err != nil {
			return fmt.Errorf("list providers: %w", err)
		}
		vm.mu.Lock()
		vm.providers = providers
		vm.mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("init purchases: %w", err)
	}
	return nil
}

// View exposes the filtered, paginated purchases collection.
func (vm *ViewModel) View() *collection.View[models.Purchase] {
	return vm.view
}

// Draft exposes the purchase being assembled.
func (vm *ViewModel) Draft() *lineitems.PurchaseDraft {
	return vm.draft
}

// Providers returns the providers loaded by Init.
func (vm *ViewModel) Providers() []models.Provider {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]models.Provider, len(vm.providers))
	copy(out, vm.providers)
	return out
}

// AddLine adds a catalogue product to the draft with taxPercent applied to
// its subtotal.
func (vm *ViewModel) AddLine(productID, quantity int, taxPercent decimal.Decimal) bool {
	product, ok := vm.catalog.Find(productID)
	if !ok {
		return false
	}
	return vm.draft.AddLine(&product, quantity, taxPercent)
}

// Register submits the draft, resets it and reloads the list.
func (vm *ViewModel) Register(ctx context.Context) error {
	payload, err := vm.draft.Payload()
	if err != nil {
		return err
	}
	payload.Date = vm.timestamp()

	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		if err := vm.gw.CreatePurchase(ctx, payload); err != nil {
			vm.logger.Warn("purchase registration failed", zap.Error(err))
			return err
		}
		vm.draft.Reset()
		vm.logger.Info("purchase registered", zap.Int("provider_id", payload.ProviderID))
		return nil
	})
}

// Update saves an edit of a loaded purchase. Edits carry no tax.
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
		return vm.gw.UpdatePurchase(ctx, id, payload)
	})
}

// Delete removes a purchase and reloads. On failure the list is unchanged.
func (vm *ViewModel) Delete(ctx context.Context, id int) error {
	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		return vm.gw.DeletePurchase(ctx, id)
	})
}

// Duplicate submits a copy of a loaded purchase dated now.
func (vm *ViewModel) Duplicate(ctx context.Context, id int) error {
	purchase, ok := vm.view.Find(func(p models.Purchase) bool { return p.ID == id })
	if !ok {
		return fmt.Errorf("%w: %d", ErrPurchaseNotFound, id)
	}

	payload, failures, err := DuplicatePayload(purchase, vm.catalog, vm.timestamp())
	if err != nil {
		return err
	}
	if err := catalog.UnresolvedError(failures); err != nil {
		vm.logger.Warn("purchase duplicate blocked", zap.Int("purchase_id", id), zap.Error(err))
		return err
	}

	return vm.view.Mutate(ctx, func(ctx context.Context) error {
		return vm.gw.CreatePurchase(ctx, payload)
	})
}

func (vm *ViewModel) timestamp() string {
	return vm.now().UTC().Format(time.RFC3339)
}

// DuplicatePayload rebuilds purchase as a creation payload dated date. Lines
// keep their recorded product id and tax; lines without an id are resolved by
// name. A purchase without a provider cannot be duplicated.
func DuplicatePayload(purchase models.Purchase, cat *catalog.Catalog, date string) (models.PurchasePayload, []catalog.Resolution, error) {
	providerID := purchase.ProviderID
	if providerID == 0 {
		providerID = purchase.Provider.ID
	}
	if providerID == 0 {
		return models.PurchasePayload{}, nil, fmt.Errorf("%w: purchase %d has no provider", models.ErrValidation, purchase.ID)
	}

	items, failures := cat.BuildLines(purchase.Items, catalog.LineOptions{PreferIDs: true, WithTax: true})
	return models.PurchasePayload{
		ProviderID: providerID,
		Date:       date,
		Items:      items,
	}, failures, nil
}
