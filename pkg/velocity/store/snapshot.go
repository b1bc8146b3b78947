// Package store holds the in-memory catalog fetched for one view.
package store

import (
	"context"
	"errors"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/filter"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
)

// ErrNotFound is returned when an index or id does not resolve to a vehicle
var ErrNotFound = errors.New("vehicle not found")

// Snapshot is the result of a single catalog fetch. It is never mutated after creation.
type Snapshot struct {
	vehicles []dal.Vehicle
}

// Load fetches the full catalog once from src.
func Load(ctx context.Context, src source.Catalog) (*Snapshot, error) {
	vehicles, err := src.List(ctx)
	if err != nil {
		return nil, err
	}
	return New(vehicles), nil
}

// New wraps vehicles in a snapshot. The slice is copied.
func New(vehicles []dal.Vehicle) *Snapshot {
	own := make([]dal.Vehicle, len(vehicles))
	copy(own, vehicles)
	return &Snapshot{vehicles: own}
}

// Len returns the number of vehicles in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.vehicles)
}

// Vehicles returns a copy of every vehicle, in fetch order.
func (s *Snapshot) Vehicles() []dal.Vehicle {
	out := make([]dal.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// At returns the vehicle at position index of the unfiltered fetch.
func (s *Snapshot) At(index int) (dal.Vehicle, error) {
	if index < 0 || index >= len(s.vehicles) {
		return dal.Vehicle{}, ErrNotFound
	}
	return s.vehicles[index], nil
}

// ByID returns the first vehicle carrying id.
func (s *Snapshot) ByID(id int) (dal.Vehicle, error) {
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return dal.Vehicle{}, ErrNotFound
}

// Filter runs the filter engine over the snapshot.
func (s *Snapshot) Filter(c dal.Criteria) []dal.Vehicle {
	return filter.Apply(s.vehicles, c)
}

// Brands returns the distinct brands present in the snapshot.
func (s *Snapshot) Brands() []string {
	brands, _ := filter.DistinctValues(s.vehicles, filter.FieldBrand)
	return brands
}

// Types returns the distinct vehicle types present in the snapshot.
func (s *Snapshot) Types() []string {
	types, _ := filter.DistinctValues(s.vehicles, filter.FieldType)
	return types
}

// Without returns a new snapshot lacking the vehicle with id.
func (s *Snapshot) Without(id int) *Snapshot {
	kept := make([]dal.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	return &Snapshot{vehicles: kept}
}
