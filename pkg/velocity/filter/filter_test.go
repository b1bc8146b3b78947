package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
)

func lamborghinis() []dal.Vehicle {
	return []dal.Vehicle{
		{ID: 1, Name: "Aventador", Brand: "Lamborghini", Type: "Supercar", Price: 400000, TopSpeed: 217},
		{ID: 2, Name: "Huracan", Brand: "Lamborghini", Type: "Supercar", Price: 260000, TopSpeed: 201},
	}
}

func fleet() []dal.Vehicle {
	return []dal.Vehicle{
		{ID: 1, Name: "Aventador", Brand: "Lamborghini", Type: "Supercar", Price: 400000, TopSpeed: 217},
		{ID: 2, Name: "SF90 Stradale", Brand: "Ferrari", Type: "Hypercar", Price: 625000, TopSpeed: 211},
		{ID: 3, Name: "Huracan", Brand: "Lamborghini", Type: "Supercar", Price: 260000, TopSpeed: 201},
		{ID: 4, Name: "", Brand: "Porsche", Type: "Sports Car", Price: 180000, TopSpeed: 196},
		{ID: 5, Name: "Chiron", Brand: "Bugatti", Type: "Hypercar", Price: 3000000, TopSpeed: 261},
		{ID: 6, Name: "Taycan", Brand: "Porsche", Type: "Electric Supercar", Price: 190000, TopSpeed: 162},
	}
}

func europeans() []dal.Vehicle {
	return []dal.Vehicle{
		{ID: 11, Name: "Ärger GT", Brand: "Apollo", Type: "Hypercar", Price: 2700000, TopSpeed: 208},
		{ID: 12, Name: "Straße R", Brand: "Gumpert", Type: "Supercar", Price: 500000, TopSpeed: 224},
		{ID: 13, Name: "Étoile V12", Brand: "Bugatti", Type: "Grand Tourer", Price: 1200000, TopSpeed: 200},
	}
}

func ids(vs []dal.Vehicle) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		records  []dal.Vehicle
		criteria func(c *dal.Criteria)
		expected []int
	}{
		{
			name:    "CaseInsensitiveSearch",
			records: lamborghinis(),
			criteria: func(c *dal.Criteria) {
				c.Search = "aven"
				c.PriceRange = dal.PriceRange{Min: 0, Max: 4000000}
				c.MinTopSpeed = 150
			},
			expected: []int{1},
		},
		{
			name:     "UpperCaseSearch",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.Search = "STRAD" },
			expected: []int{2},
		},
		{
			name:     "BrandWithNoMatch",
			records:  lamborghinis(),
			criteria: func(c *dal.Criteria) { c.Brand = "Ferrari" },
			expected: []int{},
		},
		{
			name:     "BrandOnly",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.Brand = "Porsche" },
			expected: []int{4, 6},
		},
		{
			name:     "TypeOnly",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.Type = "Hypercar" },
			expected: []int{2, 5},
		},
		{
			name:     "BrandAndType",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.Brand = "Porsche"; c.Type = "Electric Supercar" },
			expected: []int{6},
		},
		{
			name:     "EmptyNameNeverMatchesSearch",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.Brand = "Porsche"; c.Search = "a" },
			expected: []int{6},
		},
		{
			name:     "PriceBoundsInclusive",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.PriceRange = dal.PriceRange{Min: 260000, Max: 625000} },
			expected: []int{1, 2, 3},
		},
		{
			name:     "PriceOneUnitOutside",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.PriceRange = dal.PriceRange{Min: 260001, Max: 624999} },
			expected: []int{1},
		},
		{
			name:     "TopSpeedInclusive",
			records:  fleet(),
			criteria: func(c *dal.Criteria) { c.MinTopSpeed = 211 },
			expected: []int{1, 2, 5},
		},
		{
			name:     "FoldsUmlaut",
			records:  europeans(),
			criteria: func(c *dal.Criteria) { c.Search = "är" },
			expected: []int{11},
		},
		{
			name:     "FoldsUpperCaseUmlaut",
			records:  europeans(),
			criteria: func(c *dal.Criteria) { c.Search = "ÄRGER" },
			expected: []int{11},
		},
		{
			name:     "FoldsSharpS",
			records:  europeans(),
			criteria: func(c *dal.Criteria) { c.Search = "STRASSE" },
			expected: []int{12},
		},
		{
			name:     "FoldsAccents",
			records:  europeans(),
			criteria: func(c *dal.Criteria) { c.Search = "ÉTOILE" },
			expected: []int{13},
		},
		{
			name:     "EmptyRecords",
			records:  nil,
			criteria: func(c *dal.Criteria) { c.Search = "x" },
			expected: []int{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := dal.DefaultCriteria()
			tc.criteria(&c)
			got := Apply(tc.records, c)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestApplyDefaultCriteriaIsIdentity(t *testing.T) {
	records := fleet()
	assert.Equal(t, records, Apply(records, dal.DefaultCriteria()))
}

func TestApplyDefaultCriteriaKeepsOutOfRangeRecords(t *testing.T) {
	records := append(fleet(), dal.Vehicle{ID: 7, Name: "Mystery", Price: -1})
	assert.Equal(t, records, Apply(records, dal.DefaultCriteria()))

	c := dal.DefaultCriteria()
	c.PriceRange.Max = 4000000
	assert.NotContains(t, ids(Apply(records, c)), 7)
}

func TestApplyIsIdempotent(t *testing.T) {
	records := fleet()
	c := dal.DefaultCriteria()
	c.Search = "a"
	c.MinTopSpeed = 200

	once := Apply(records, c)
	assert.Equal(t, once, Apply(once, c))
	assert.Equal(t, once, Apply(records, c))
}

func TestApplyPreservesOrderAndInput(t *testing.T) {
	records := fleet()
	snapshot := fleet()
	c := dal.DefaultCriteria()
	c.PriceRange.Max = 500000

	got := Apply(records, c)

	// result is a subsequence of the input
	j := 0
	for _, v := range got {
		for j < len(records) && records[j].ID != v.ID {
			j++
		}
		require.Less(t, j, len(records), "vehicle %d out of order", v.ID)
		j++
	}
	assert.Equal(t, snapshot, records)
}

func TestDistinctValues(t *testing.T) {
	brands, err := DistinctValues(lamborghinis(), FieldBrand)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamborghini"}, brands)

	types, err := DistinctValues(fleet(), FieldType)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Supercar", "Hypercar", "Sports Car", "Electric Supercar"}, types)

	empty, err := DistinctValues(nil, FieldBrand)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DistinctValues(fleet(), Field("price"))
	assert.ErrorIs(t, err, ErrUnknownField)
}
