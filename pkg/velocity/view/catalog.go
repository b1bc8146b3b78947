// Package view holds the view models behind the catalog, detail, admin and
// contact screens. Each view owns its own fetch lifecycle; nothing is shared
// between views.
package view

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/store"
)

// State is the render state of a view
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// CatalogView lists the catalog through a mutable set of criteria.
type CatalogView struct {
	src  source.Catalog
	task task

	mu       sync.RWMutex
	snap     *store.Snapshot
	criteria dal.Criteria
	visible  []dal.Vehicle
	err      error
}

// NewCatalogView returns a view over src that starts with criteria c.
func NewCatalogView(src source.Catalog, c dal.Criteria) *CatalogView {
	return &CatalogView{
		src:      src,
		criteria: c,
	}
}

// Open fetches the catalog once and applies the current criteria.
func (v *CatalogView) Open(ctx context.Context) error {
	return v.Settle(v.Fetch(ctx))
}

// Fetch performs the catalog request without touching view state.
func (v *CatalogView) Fetch(ctx context.Context) (*store.Snapshot, error) {
	ctx, done, err := v.task.begin(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := store.Load(ctx, v.src)
	if closedErr := done(); closedErr != nil {
		return nil, closedErr
	}
	return snap, err
}

// Settle applies the outcome of Fetch. A failed fetch leaves the view in the
// failed state with nothing visible.
func (v *CatalogView) Settle(snap *store.Snapshot, err error) error {
	if errors.Is(err, ErrClosed) || errors.Is(err, ErrBusy) {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("Catalog fetch failed")
		v.snap = nil
		v.visible = nil
		v.err = err
		return err
	}

	v.snap = snap
	v.err = nil
	v.refilter()
	return nil
}

func (v *CatalogView) refilter() {
	if v.snap == nil {
		return
	}
	v.visible = v.snap.Filter(v.criteria)
}

// State reports what the view should render.
func (v *CatalogView) State() State {
	if v.task.inFlight() {
		return StateLoading
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	switch {
	case v.err != nil:
		return StateFailed
	case v.snap == nil:
		return StateIdle
	case len(v.visible) == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// Err returns the fetch failure, if any.
func (v *CatalogView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Empty reports a successful fetch with no vehicle passing the criteria.
func (v *CatalogView) Empty() bool {
	return v.State() == StateEmpty
}

// Visible returns the vehicles passing the current criteria.
func (v *CatalogView) Visible() []dal.Vehicle {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.visible == nil {
		return nil
	}
	out := make([]dal.Vehicle, len(v.visible))
	copy(out, v.visible)
	return out
}

// Total returns the size of the unfiltered catalog.
func (v *CatalogView) Total() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.snap == nil {
		return 0
	}
	return v.snap.Len()
}

// Brands returns the brand options for the filter panel.
func (v *CatalogView) Brands() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.snap == nil {
		return nil
	}
	return v.snap.Brands()
}

// Types returns the type options for the filter panel.
func (v *CatalogView) Types() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.snap == nil {
		return nil
	}
	return v.snap.Types()
}

// Criteria returns the current criteria.
func (v *CatalogView) Criteria() dal.Criteria {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.criteria
}

func (v *CatalogView) update(fn func(c *dal.Criteria)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.criteria)
	v.refilter()
}

func (v *CatalogView) SetSearch(search string) {
	v.update(func(c *dal.Criteria) { c.Search = search })
}

func (v *CatalogView) SetBrand(brand string) {
	v.update(func(c *dal.Criteria) { c.Brand = brand })
}

func (v *CatalogView) SetType(vehicleType string) {
	v.update(func(c *dal.Criteria) { c.Type = vehicleType })
}

func (v *CatalogView) SetPriceRange(minPrice, maxPrice int64) {
	v.update(func(c *dal.Criteria) { c.PriceRange = dal.PriceRange{Min: minPrice, Max: maxPrice} })
}

func (v *CatalogView) SetMinTopSpeed(speed int) {
	v.update(func(c *dal.Criteria) { c.MinTopSpeed = speed })
}

// SetCriteria replaces every criterion at once.
func (v *CatalogView) SetCriteria(criteria dal.Criteria) {
	v.update(func(c *dal.Criteria) { *c = criteria })
}

// Reset restores the no restriction criteria.
func (v *CatalogView) Reset() {
	v.SetCriteria(dal.DefaultCriteria())
}

// Response renders the view as an HTTP response body.
func (v *CatalogView) Response() dal.CatalogResponse {
	visible := v.Visible()
	if visible == nil {
		visible = []dal.Vehicle{}
	}
	brands, types := v.Brands(), v.Types()
	if brands == nil {
		brands = []string{}
	}
	if types == nil {
		types = []string{}
	}
	return dal.CatalogResponse{
		Vehicles: visible,
		Brands:   brands,
		Types:    types,
		Total:    v.Total(),
		Empty:    len(visible) == 0,
		Criteria: v.Criteria(),
	}
}

// Close cancels an in-flight fetch. Results arriving afterwards are dropped.
func (v *CatalogView) Close() {
	v.task.close()
}
