// Package collection holds the filtered, paginated in-memory record view shared
// by the sales, purchases and inventory screens.
package collection

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/posadmin/internal/domain/models"
)

// DefaultPageSize is the number of records per page when none is configured.
const DefaultPageSize = 5

// ErrSuperseded reports a response discarded because a newer fetch was issued
// after it. The view keeps the newer state.
var ErrSuperseded = errors.New("response superseded by a newer request")

// Fetcher loads the full collection matching criteria from the backend.
type Fetcher[T any] func(ctx context.Context, criteria models.FilterCriteria) ([]T, error)

// Page is a contiguous, 1-indexed slice of the loaded collection.
type Page[T any] struct {
	Number     int                   `json:"page"`
	Size       int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
	TotalItems int                   `json:"total_items"`
	Criteria   models.FilterCriteria `json:"criteria"`
	Items      []T                   `json:"items"`
}

// View holds a fetched collection, its filter criteria and a page cursor. The
// visible page is always derived from those three values.
type View[T any] struct {
	fetch    Fetcher[T]
	pageSize int
	logger   *zap.Logger

	mu       sync.Mutex
	items    []T
	criteria models.FilterCriteria
	page     int
	issued   uint64
}

// New builds an empty view. pageSize < 1 selects DefaultPageSize.
func New[T any](fetch Fetcher[T], pageSize int, logger *zap.Logger) *View[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View[T]{fetch: fetch, pageSize: pageSize, logger: logger, page: 1}
}

// Load fetches the collection for criteria and replaces the loaded items.
// The page cursor returns to 1 only when criteria differ from the current ones.
// On error the view is left unchanged.
func (v *View[T]) Load(ctx context.Context, criteria models.FilterCriteria) ([]T, error) {
	return v.load(ctx, criteria, false)
}

// SetFilter stores criteria, reloads and moves to page 1.
func (v *View[T]) SetFilter(ctx context.Context, criteria models.FilterCriteria) error {
	_, err := v.load(ctx, criteria, true)
	return err
}

// ClearFilters resets every criterion and reloads page 1.
func (v *View[T]) ClearFilters(ctx context.Context) error {
	return v.SetFilter(ctx, models.FilterCriteria{})
}

// Reload refetches with the current criteria, keeping the page index.
func (v *View[T]) Reload(ctx context.Context) error {
	_, err := v.Load(ctx, v.Criteria())
	return err
}

// Mutate runs a create, update or delete and reloads the collection when it
// succeeds. A failed mutation leaves the loaded collection untouched. Once the
// mutation is applied the result is nil: a superseded reload already has a
// newer load behind it and any other reload failure is only logged.
func (v *View[T]) Mutate(ctx context.Context, mutation func(ctx context.Context) error) error {
	if err := mutation(ctx); err != nil {
		return err
	}
	if err := v.Reload(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		v.logger.Warn("reload after mutation failed", zap.Error(err))
	}
	return nil
}

func (v *View[T]) load(ctx context.Context, criteria models.FilterCriteria, resetPage bool) ([]T, error) {
	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	items, err := v.fetch(ctx, criteria)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.issued {
		v.logger.Debug("discarding stale collection response", zap.Uint64("seq", seq), zap.Uint64("latest", v.issued))
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	if resetPage || !criteria.Equal(v.criteria) {
		v.page = 1
	}
	v.criteria = criteria
	v.items = items
	return clone(items), nil
}

// Page returns elements [(n-1)*size, n*size) of the loaded collection.
// Out-of-range n yields an empty slice.
func (v *View[T]) Page(n int) []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageLocked(n)
}

func (v *View[T]) pageLocked(n int) []T {
	if n < 1 {
		return []T{}
	}
	start := (n - 1) * v.pageSize
	if start >= len(v.items) {
		return []T{}
	}
	end := min(start+v.pageSize, len(v.items))
	return clone(v.items[start:end])
}

// SetPage moves the cursor. Any value is accepted; pages past the end are empty.
func (v *View[T]) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = n
}

// Current returns the page under the cursor together with paging metadata.
func (v *View[T]) Current() Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Page[T]{
		Number:     v.page,
		Size:       v.pageSize,
		TotalPages: v.totalPagesLocked(),
		TotalItems: len(v.items),
		Criteria:   v.criteria,
		Items:      v.pageLocked(v.page),
	}
}

// TotalPages is ceil(len/pageSize), 0 for an empty collection.
func (v *View[T]) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPagesLocked()
}

func (v *View[T]) totalPagesLocked() int {
	return (len(v.items) + v.pageSize - 1) / v.pageSize
}

// Criteria returns the criteria of the loaded collection.
func (v *View[T]) Criteria() models.FilterCriteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

// Items returns a copy of the whole loaded collection.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clone(v.items)
}

// Find returns the first loaded record matching match.
func (v *View[T]) Find(match func(T) bool) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
