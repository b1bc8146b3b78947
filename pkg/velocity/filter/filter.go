// Package filter computes the visible subset of a catalog for a set of criteria.
package filter

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
)

// ErrUnknownField is returned by DistinctValues for fields that are not enumerable
var ErrUnknownField = errors.New("unknown field")

// Field names a string attribute that can populate a filter option list
type Field string

const (
	FieldBrand Field = "brand"
	FieldType  Field = "type"
)

type predicate func(v *dal.Vehicle) bool

// Apply returns the records matching every restriction in c, in their original order.
// The input slice is never modified.
func Apply(records []dal.Vehicle, c dal.Criteria) []dal.Vehicle {
	if c.Unrestricted() {
		return append(make([]dal.Vehicle, 0, len(records)), records...)
	}

	stages := pipeline(c)
	out := make([]dal.Vehicle, 0, len(records))
	for i := range records {
		if matchAll(&records[i], stages) {
			out = append(out, records[i])
		}
	}
	return out
}

// pipeline builds one stage per active restriction; unrestricted fields add no stage.
func pipeline(c dal.Criteria) []predicate {
	var stages []predicate
	if c.Search != "" {
		stages = append(stages, searchMatch(c.Search))
	}
	if c.Brand != dal.All {
		stages = append(stages, brandMatch(c.Brand))
	}
	if c.Type != dal.All {
		stages = append(stages, typeMatch(c.Type))
	}
	if c.PriceRange.Min > 0 || c.PriceRange.Max != dal.NoMaxPrice {
		stages = append(stages, priceMatch(c.PriceRange))
	}
	if c.MinTopSpeed > 0 {
		stages = append(stages, topSpeedMatch(c.MinTopSpeed))
	}
	return stages
}

func matchAll(v *dal.Vehicle, stages []predicate) bool {
	for _, match := range stages {
		if !match(v) {
			return false
		}
	}
	return true
}

func searchMatch(search string) predicate {
	needle := fold(search)
	return func(v *dal.Vehicle) bool {
		return v.Name != "" && strings.Contains(fold(v.Name), needle)
	}
}

func brandMatch(brand string) predicate {
	return func(v *dal.Vehicle) bool {
		return v.Brand == brand
	}
}

func typeMatch(vehicleType string) predicate {
	return func(v *dal.Vehicle) bool {
		return v.Type == vehicleType
	}
}

func priceMatch(r dal.PriceRange) predicate {
	return func(v *dal.Vehicle) bool {
		return r.Contains(v.Price)
	}
}

func topSpeedMatch(minSpeed int) predicate {
	return func(v *dal.Vehicle) bool {
		return v.TopSpeed >= minSpeed
	}
}

// cases.Caser is stateful, each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// DistinctValues returns each value of field present in records exactly once,
// in order of first appearance.
func DistinctValues(records []dal.Vehicle, field Field) ([]string, error) {
	var get func(v *dal.Vehicle) string
	switch field {
	case FieldBrand:
		get = func(v *dal.Vehicle) string { return v.Brand }
	case FieldType:
		get = func(v *dal.Vehicle) string { return v.Type }
	default:
		return nil, ErrUnknownField
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range records {
		value := get(&records[i])
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values, nil
}
