package dal

import "math"

// All is the brand/type sentinel that disables the corresponding restriction
const All = "all"

// NoMaxPrice is the open upper price bound
const NoMaxPrice = math.MaxInt64

// PriceRange is an inclusive price interval
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether price lies within the inclusive range.
func (r PriceRange) Contains(price int64) bool {
	return r.Min <= price && price <= r.Max
}

// Criteria defines the user editable predicate over the catalog
type Criteria struct {
	Search      string     `json:"search"`
	Brand       string     `json:"brand"`
	Type        string     `json:"type"`
	PriceRange  PriceRange `json:"priceRange"`
	MinTopSpeed int        `json:"minTopSpeed"`
}

// DefaultCriteria returns criteria that restrict nothing.
func DefaultCriteria() Criteria {
	return Criteria{
		Brand:      All,
		Type:       All,
		PriceRange: PriceRange{Min: 0, Max: NoMaxPrice},
	}
}

// CatalogCriteria returns the preset the catalog page opens with.
func CatalogCriteria() Criteria {
	c := DefaultCriteria()
	c.PriceRange.Max = 4000000
	c.MinTopSpeed = 150
	return c
}

// Unrestricted reports whether c lets every record through.
func (c Criteria) Unrestricted() bool {
	return c.Search == "" &&
		c.Brand == All &&
		c.Type == All &&
		c.PriceRange.Min <= 0 && c.PriceRange.Max == NoMaxPrice &&
		c.MinTopSpeed <= 0
}
