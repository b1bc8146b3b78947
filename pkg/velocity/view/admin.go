package view

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/store"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNoFeature    = errors.New("no such feature")
)

// Option lists offered by the admin form
var (
	EngineOptions = []string{"V6", "V8", "V10", "V12", "W16", "Electric"}
	BrandOptions  = []string{"Ferrari", "Lamborghini", "Porsche", "McLaren", "Bugatti", "Koenigsegg", "Pagani", "Toyota", "Mercedes", "Mitsubishi", "BMW", "Nissan", "Bentley"}
	TypeOptions   = []string{"Sports Car", "Supercar", "Hypercar", "Electric Supercar", "Luxury", "Cobalt"}
)

// AdminForm edits the catalog: it builds a draft vehicle field by field and
// submits create and delete requests to the data source.
type AdminForm struct {
	src  source.Catalog
	task task

	mu    sync.RWMutex
	draft dal.Vehicle
	snap  *store.Snapshot
	err   error
}

func NewAdminForm(src source.Catalog) *AdminForm {
	return &AdminForm{
		src:   src,
		draft: emptyDraft(),
	}
}

func emptyDraft() dal.Vehicle {
	return dal.Vehicle{Features: []string{}}
}

// Open fetches the current catalog for the delete table.
func (f *AdminForm) Open(ctx context.Context) error {
	ctx, done, err := f.task.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()
	return f.reload(ctx)
}

func (f *AdminForm) reload(ctx context.Context) error {
	snap, err := store.Load(ctx, f.src)
	if f.task.isClosed() {
		return ErrClosed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.err = err
		return err
	}
	f.snap = snap
	f.err = nil
	return nil
}

// Err returns the last catalog fetch failure.
func (f *AdminForm) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// Vehicles returns the catalog as last fetched.
func (f *AdminForm) Vehicles() []dal.Vehicle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.snap == nil {
		return nil
	}
	return f.snap.Vehicles()
}

// Draft returns a copy of the vehicle being edited.
func (f *AdminForm) Draft() dal.Vehicle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	d := f.draft
	d.Features = append([]string{}, f.draft.Features...)
	return d
}

// SetDraft replaces the draft wholesale.
func (f *AdminForm) SetDraft(v dal.Vehicle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.Features == nil {
		v.Features = []string{}
	}
	f.draft = v
}

// SetField sets a top level draft field from its form value. Numeric fields
// accept an empty value as "not filled in".
func (f *AdminForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := &f.draft
	switch name {
	case "name":
		d.Name = value
	case "brand":
		d.Brand = value
	case "type":
		d.Type = value
	case "image":
		d.Image = value
	case "acceleration":
		d.Acceleration = value
	case "power":
		d.Power = value
	case "description":
		d.Description = value
	case "engine", "transmission", "drivetrain", "weight", "fuelEconomy":
		return setSpecification(&d.Specifications, name, value)
	case "price":
		price, err := parseNumber(name, value)
		if err != nil {
			return err
		}
		d.Price = price
	case "topSpeed":
		speed, err := parseNumber(name, value)
		if err != nil {
			return err
		}
		d.TopSpeed = int(speed)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetSpecification sets one entry of the draft's specifications.
func (f *AdminForm) SetSpecification(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return setSpecification(&f.draft.Specifications, name, value)
}

func setSpecification(s *dal.Specifications, name, value string) error {
	switch name {
	case "engine":
		s.Engine = value
	case "transmission":
		s.Transmission = value
	case "drivetrain":
		s.Drivetrain = value
	case "weight":
		s.Weight = value
	case "fuelEconomy":
		s.FuelEconomy = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

func parseNumber(name, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be a positive number: %d", name, n)
	}
	return n, nil
}

// AddFeature appends an empty feature slot and returns its index.
func (f *AdminForm) AddFeature() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Features = append(f.draft.Features, "")
	return len(f.draft.Features) - 1
}

// SetFeature fills the feature slot at index.
func (f *AdminForm) SetFeature(index int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.draft.Features) {
		return fmt.Errorf("%w: %d", ErrNoFeature, index)
	}
	f.draft.Features[index] = value
	return nil
}

// Submit creates the draft in the data source. On success the draft is cleared,
// unless it was edited while the create was in flight, and the catalog
// re-fetched; on failure nothing local changes.
func (f *AdminForm) Submit(ctx context.Context) (dal.Vehicle, error) {
	draft := f.Draft()
	if err := validateStruct(draft); err != nil {
		return dal.Vehicle{}, err
	}
	if err := draft.Validate(); err != nil {
		return dal.Vehicle{}, err
	}
	submitted := draft
	draft.Features = compact(draft.Features)

	ctx, done, err := f.task.begin(ctx)
	if err != nil {
		return dal.Vehicle{}, err
	}
	defer func() { _ = done() }()

	created, err := f.src.Create(ctx, draft)
	if err != nil {
		log.WithError(err).Warn("Error adding car")
		return dal.Vehicle{}, err
	}

	f.mu.Lock()
	if f.draftUnchanged(submitted) {
		f.draft = emptyDraft()
	} else {
		log.Debug("Draft edited during submit, keeping it")
	}
	f.mu.Unlock()

	if err := f.reload(ctx); err != nil {
		log.WithError(err).Warn("Catalog reload after create failed")
	}
	return created, nil
}

// Delete removes the vehicle with id from the data source and, on success,
// from the locally held list.
func (f *AdminForm) Delete(ctx context.Context, id int) error {
	ctx, done, err := f.task.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()

	if err := f.src.Delete(ctx, id); err != nil {
		log.WithError(err).WithField("id", id).Warn("Error deleting the vehicle")
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap != nil {
		f.snap = f.snap.Without(id)
	}
	return nil
}

// draftUnchanged must be called with f.mu held.
func (f *AdminForm) draftUnchanged(submitted dal.Vehicle) bool {
	current := f.draft
	current.Features = append([]string{}, f.draft.Features...)
	return reflect.DeepEqual(current, submitted)
}

func (f *AdminForm) Close() {
	f.task.close()
}

func compact(features []string) []string {
	out := make([]string, 0, len(features))
	for _, feature := range features {
		if strings.TrimSpace(feature) != "" {
			out = append(out, feature)
		}
	}
	return out
}
