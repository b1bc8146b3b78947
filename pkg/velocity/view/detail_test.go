package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
)

func TestDetailView(t *testing.T) {
	tests := []struct {
		name     string
		open     func(d *DetailView) error
		expected string
		state    State
		features bool
	}{
		{
			name:     "ByIndex",
			open:     func(d *DetailView) error { return d.OpenAt(context.Background(), 2) },
			expected: "SF90 Stradale",
			state:    StateReady,
		},
		{
			name:     "ByID",
			open:     func(d *DetailView) error { return d.OpenByID(context.Background(), 1) },
			expected: "Aventador",
			state:    StateReady,
			features: true,
		},
		{
			name:  "IndexOutOfRange",
			open:  func(d *DetailView) error { return d.OpenAt(context.Background(), 3) },
			state: StateEmpty,
		},
		{
			name:  "UnknownID",
			open:  func(d *DetailView) error { return d.OpenByID(context.Background(), 99) },
			state: StateEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &mockCatalog{}
			src.On("List", mock.Anything).Return(supercars(), nil)
			d := NewDetailView(src)
			defer d.Close()

			err := tc.open(d)
			assert.Equal(t, tc.state, d.State())
			assert.Equal(t, tc.features, d.HasFeatures())
			if tc.expected == "" {
				assert.ErrorIs(t, err, ErrNotFound)
				_, ok := d.Vehicle()
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			v, ok := d.Vehicle()
			require.True(t, ok)
			assert.Equal(t, tc.expected, v.Name)
		})
	}
}

func TestDetailViewSpecifications(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(supercars(), nil)
	d := NewDetailView(src)
	require.NoError(t, d.OpenByID(context.Background(), 1))

	specs := d.Specifications()
	require.Len(t, specs, 5)
	assert.Equal(t, "engine", specs[0].Key)
	assert.Equal(t, "V12", specs[0].Value)
	assert.Equal(t, "fuelEconomy", specs[4].Key)

	resp := d.Response()
	assert.True(t, resp.HasFeatures)
	assert.Equal(t, []string{"Carbon fibre monocoque", "Scissor doors"}, resp.Vehicle.Features)
}

func TestDetailViewNoFeatures(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(supercars(), nil)
	d := NewDetailView(src)
	require.NoError(t, d.OpenByID(context.Background(), 2))

	resp := d.Response()
	assert.False(t, resp.HasFeatures)
	assert.NotNil(t, resp.Vehicle.Features)
	assert.Empty(t, resp.Vehicle.Features)
}

func TestDetailViewFetchFailure(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(nil, &source.FetchError{Status: 503, Err: source.ErrStatus})
	d := NewDetailView(src)

	err := d.OpenAt(context.Background(), 0)
	var fetchErr *source.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, StateFailed, d.State())
	assert.Nil(t, d.Specifications())
}
