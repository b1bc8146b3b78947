package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
)

func fillDraft(t *testing.T, f *AdminForm) {
	t.Helper()
	fields := map[string]string{
		"name":         "Chiron",
		"price":        "3000000",
		"image":        "https://upload.wikimedia.org/chiron.jpg",
		"brand":        "Bugatti",
		"type":         "Hypercar",
		"topSpeed":     "261",
		"acceleration": "2.4s 0-60 mph",
		"power":        "1479 hp",
		"description":  "Quad turbo W16",
	}
	for name, value := range fields {
		require.NoError(t, f.SetField(name, value))
	}
	require.NoError(t, f.SetSpecification("engine", "W16"))
	require.NoError(t, f.SetSpecification("transmission", "7-speed DCT"))
	require.NoError(t, f.SetSpecification("drivetrain", "AWD"))
	require.NoError(t, f.SetSpecification("weight", "1995 kg"))
	require.NoError(t, f.SetField("fuelEconomy", "9 mpg"))
	i := f.AddFeature()
	require.NoError(t, f.SetFeature(i, "Active aerodynamics"))
	f.AddFeature()
}

func TestAdminFormSubmit(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(supercars(), nil)
	src.On("Create", mock.Anything, mock.MatchedBy(func(v dal.Vehicle) bool {
		return v.Name == "Chiron" && v.Price == 3000000 && v.TopSpeed == 261 &&
			v.Specifications.Engine == "W16" &&
			assert.ObjectsAreEqual([]string{"Active aerodynamics"}, v.Features)
	})).Return(dal.Vehicle{ID: 4, Name: "Chiron"}, nil)

	f := NewAdminForm(src)
	require.NoError(t, f.Open(context.Background()))
	fillDraft(t, f)

	created, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, emptyDraft(), f.Draft())
	src.AssertNumberOfCalls(t, "List", 2)
	src.AssertExpectations(t)
}

func TestAdminFormSubmitKeepsEditsMadeInFlight(t *testing.T) {
	src := &mockCatalog{}
	f := NewAdminForm(src)
	src.On("List", mock.Anything).Return(supercars(), nil)
	src.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		require.NoError(t, f.SetField("description", "Pur Sport"))
	}).Return(dal.Vehicle{ID: 4, Name: "Chiron"}, nil)

	require.NoError(t, f.Open(context.Background()))
	fillDraft(t, f)

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	draft := f.Draft()
	assert.Equal(t, "Pur Sport", draft.Description)
	assert.Equal(t, "Chiron", draft.Name)
}

func TestAdminFormSubmitMissingFields(t *testing.T) {
	src := &mockCatalog{}
	f := NewAdminForm(src)
	require.NoError(t, f.SetField("name", "Chiron"))

	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "transmission")
	assert.NotContains(t, fields, "name")
	assert.NotContains(t, fields, "engine")
	assert.Equal(t, "Chiron", f.Draft().Name)
	src.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminFormSubmitFailureKeepsDraft(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(supercars(), nil).Once()
	src.On("Create", mock.Anything, mock.Anything).Return(dal.Vehicle{}, &source.SubmitError{Op: "create", Status: 500, Err: source.ErrStatus})

	f := NewAdminForm(src)
	require.NoError(t, f.Open(context.Background()))
	fillDraft(t, f)
	before := f.Draft()

	_, err := f.Submit(context.Background())
	var submitErr *source.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, before, f.Draft())
	assert.Len(t, f.Vehicles(), 3)
	src.AssertNumberOfCalls(t, "List", 1)
}

func TestAdminFormSetFieldErrors(t *testing.T) {
	f := NewAdminForm(&mockCatalog{})
	assert.ErrorIs(t, f.SetField("colour", "red"), ErrUnknownField)
	assert.Error(t, f.SetField("price", "lots"))
	assert.Error(t, f.SetField("topSpeed", "-1"))
	assert.ErrorIs(t, f.SetSpecification("torque", "1600 Nm"), ErrUnknownField)
	assert.ErrorIs(t, f.SetFeature(0, "x"), ErrNoFeature)

	require.NoError(t, f.SetField("price", ""))
	assert.Zero(t, f.Draft().Price)
}

func TestAdminFormDelete(t *testing.T) {
	src := &mockCatalog{}
	src.On("List", mock.Anything).Return(supercars(), nil)
	src.On("Delete", mock.Anything, 2).Return(nil)
	src.On("Delete", mock.Anything, 3).Return(&source.SubmitError{Op: "delete", Status: 404, Err: source.ErrStatus})

	f := NewAdminForm(src)
	require.NoError(t, f.Open(context.Background()))

	require.NoError(t, f.Delete(context.Background(), 2))
	remaining := f.Vehicles()
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].ID)
	assert.Equal(t, 3, remaining[1].ID)

	err := f.Delete(context.Background(), 3)
	var submitErr *source.SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Len(t, f.Vehicles(), 2)
}
