// Package inventory is the view-model behind the stock movements screen.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/posadmin/internal/domain/models"
	"github.com/mamadbah2/posadmin/internal/service/catalog"
)

// Gateway is the subset of the backend client the inventory screen needs.
type Gateway interface {
	ListMovements(ctx context.Context) ([]models.InventoryMovement, error)
	CreateMovement(ctx context.Context, movement models.InventoryMovement) error
}

// MovementForm is a stock adjustment entered by the user.
type MovementForm struct {
	ProductID int                 `json:"productoId"`
	Type      models.MovementType `json:"tipo"`
	Quantity  int                 `json:"cantidad"`
	Note      string              `json:"observacion"`
}

// Validate rejects forms that must not reach the backend.
func (f MovementForm) Validate() error {
	switch {
	case f.ProductID <= 0:
		return fmt.Errorf("%w: select a product", models.ErrValidation)
	case f.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be greater than 0", models.ErrValidation)
	case f.Type != models.MovementIn && f.Type != models.MovementOut:
		return fmt.Errorf("%w: movement type must be %s or %s", models.ErrValidation, models.MovementIn, models.MovementOut)
	}
	return nil
}

// ViewModel holds one session's movements list and the product snapshot used
// to label them.
type ViewModel struct {
	gw      Gateway
	catalog *catalog.Catalog
	logger  *zap.Logger

	mu        sync.RWMutex
	movements []models.InventoryMovement
}

// NewViewModel wires an inventory view-model.
func NewViewModel(gw Gateway, cat *catalog.Catalog, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{gw: gw, catalog: cat, logger: logger}
}

// Load refreshes the movements and the product snapshot together.
func (vm *ViewModel) Load(ctx context.Context) error {
	var movements []models.InventoryMovement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movements, err = vm.gw.ListMovements(gctx)
		return err
	})
	g.Go(func() error {
		return vm.catalog.Refresh(gctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	vm.mu.Lock()
	vm.movements = movements
	vm.mu.Unlock()
	return nil
}

// Movements returns the loaded movements.
func (vm *ViewModel) Movements() []models.InventoryMovement {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]models.InventoryMovement, len(vm.movements))
	copy(out, vm.movements)
	return out
}

// Register validates and submits a movement, then reloads movements and
// products so stock levels reflect it. Backend errors are returned as is so
// their message can be shown to the user.
func (vm *ViewModel) Register(ctx context.Context, form MovementForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	movement := models.InventoryMovement{
		ProductID: form.ProductID,
		Type:      form.Type,
		Quantity:  form.Quantity,
		Note:      strings.TrimSpace(form.Note),
	}
	if err := vm.gw.CreateMovement(ctx, movement); err != nil {
		vm.logger.Warn("inventory movement rejected",
			zap.Int("product_id", form.ProductID),
			zap.String("type", string(form.Type)),
			zap.Error(err),
		)
		return err
	}

	vm.logger.Info("inventory movement registered",
		zap.Int("product_id", form.ProductID),
		zap.String("type", string(form.Type)),
		zap.Int("quantity", form.Quantity),
	)
	return vm.Load(ctx)
}

// ProductName labels a movement's product from the snapshot.
func (vm *ViewModel) ProductName(id int) string {
	return vm.catalog.NameOf(id)
}
