package view

import (
	"context"
	"errors"
	"sync"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/store"
)

// ErrNotFound is the "no car details available" state
var ErrNotFound = store.ErrNotFound

// DetailView shows a single vehicle.
type DetailView struct {
	src  source.Catalog
	task task

	mu      sync.RWMutex
	vehicle *dal.Vehicle
	err     error
}

func NewDetailView(src source.Catalog) *DetailView {
	return &DetailView{src: src}
}

// OpenAt resolves index against the unfiltered catalog, the way catalog links
// address vehicles by position.
func (d *DetailView) OpenAt(ctx context.Context, index int) error {
	return d.open(ctx, func(s *store.Snapshot) (dal.Vehicle, error) {
		return s.At(index)
	})
}

// OpenByID resolves the vehicle by its id.
func (d *DetailView) OpenByID(ctx context.Context, id int) error {
	return d.open(ctx, func(s *store.Snapshot) (dal.Vehicle, error) {
		return s.ByID(id)
	})
}

func (d *DetailView) open(ctx context.Context, lookup func(*store.Snapshot) (dal.Vehicle, error)) error {
	ctx, done, err := d.task.begin(ctx)
	if err != nil {
		return err
	}
	snap, err := store.Load(ctx, d.src)
	if closedErr := done(); closedErr != nil {
		return closedErr
	}

	var vehicle dal.Vehicle
	if err == nil {
		vehicle, err = lookup(snap)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.vehicle = nil
		d.err = err
		return err
	}
	d.vehicle = &vehicle
	d.err = nil
	return nil
}

// State reports what the view should render. A missing vehicle is StateEmpty.
func (d *DetailView) State() State {
	if d.task.inFlight() {
		return StateLoading
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	switch {
	case errors.Is(d.err, ErrNotFound):
		return StateEmpty
	case d.err != nil:
		return StateFailed
	case d.vehicle == nil:
		return StateIdle
	default:
		return StateReady
	}
}

func (d *DetailView) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Vehicle returns the loaded vehicle.
func (d *DetailView) Vehicle() (dal.Vehicle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.vehicle == nil {
		return dal.Vehicle{}, false
	}
	return *d.vehicle, true
}

// Specifications returns the labelled specification entries in display order.
func (d *DetailView) Specifications() []dal.Spec {
	v, ok := d.Vehicle()
	if !ok {
		return nil
	}
	return v.Specifications.Entries()
}

// HasFeatures is false when the "no features" state should be shown.
func (d *DetailView) HasFeatures() bool {
	v, ok := d.Vehicle()
	return ok && len(v.Features) > 0
}

func (d *DetailView) Response() dal.DetailResponse {
	v, _ := d.Vehicle()
	if v.Features == nil {
		v.Features = []string{}
	}
	return dal.DetailResponse{
		Vehicle:        v,
		Specifications: d.Specifications(),
		HasFeatures:    d.HasFeatures(),
	}
}

func (d *DetailView) Close() {
	d.task.close()
}
