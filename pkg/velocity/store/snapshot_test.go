package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
)

type staticCatalog struct {
	vehicles []dal.Vehicle
	err      error
}

func (c staticCatalog) List(ctx context.Context) ([]dal.Vehicle, error) {
	return c.vehicles, c.err
}

func (c staticCatalog) Create(ctx context.Context, v dal.Vehicle) (dal.Vehicle, error) {
	return v, nil
}

func (c staticCatalog) Delete(ctx context.Context, id int) error {
	return nil
}

func vehicles() []dal.Vehicle {
	return []dal.Vehicle{
		{ID: 10, Name: "Aventador", Brand: "Lamborghini", Type: "Supercar", Price: 400000, TopSpeed: 217},
		{ID: 20, Name: "Huracan", Brand: "Lamborghini", Type: "Supercar", Price: 260000, TopSpeed: 201},
		{ID: 30, Name: "296 GTB", Brand: "Ferrari", Type: "Sports Car", Price: 320000, TopSpeed: 205},
	}
}

func TestLoad(t *testing.T) {
	snap, err := Load(context.Background(), staticCatalog{vehicles: vehicles()})
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"Lamborghini", "Ferrari"}, snap.Brands())
	assert.Equal(t, []string{"Supercar", "Sports Car"}, snap.Types())

	boom := errors.New("boom")
	_, err = Load(context.Background(), staticCatalog{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotLookup(t *testing.T) {
	snap := New(vehicles())

	v, err := snap.At(1)
	require.NoError(t, err)
	assert.Equal(t, "Huracan", v.Name)

	_, err = snap.At(3)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = snap.At(-1)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = snap.ByID(30)
	require.NoError(t, err)
	assert.Equal(t, "296 GTB", v.Name)

	_, err = snap.ByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotIsolation(t *testing.T) {
	source := vehicles()
	snap := New(source)
	source[0].Name = "changed"

	got := snap.Vehicles()
	assert.Equal(t, "Aventador", got[0].Name)
	got[1].Name = "changed"

	v, _ := snap.At(1)
	assert.Equal(t, "Huracan", v.Name)
}

func TestSnapshotFilterAndWithout(t *testing.T) {
	snap := New(vehicles())
	c := dal.DefaultCriteria()
	c.Brand = "Lamborghini"
	assert.Len(t, snap.Filter(c), 2)

	trimmed := snap.Without(10)
	assert.Equal(t, 2, trimmed.Len())
	assert.Equal(t, 3, snap.Len())
	_, err := trimmed.ByID(10)
	assert.ErrorIs(t, err, ErrNotFound)
}
