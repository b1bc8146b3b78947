package dal

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vehicle defines one catalog entry as served by the catalog data source
type Vehicle struct {
	ID             int            `json:"id"`
	Name           string         `json:"name" validate:"required"`
	Brand          string         `json:"brand"`
	Type           string         `json:"type"`
	Price          int64          `json:"price" validate:"required"`
	TopSpeed       int            `json:"topSpeed" validate:"required"`
	Acceleration   string         `json:"acceleration" validate:"required"`
	Power          string         `json:"power" validate:"required"`
	Image          string         `json:"image" validate:"required"`
	Description    string         `json:"description,omitempty" validate:"required"`
	Specifications Specifications `json:"specifications"`
	Features       []string       `json:"features"`
}

// Specifications defines the fixed technical sheet of a vehicle
type Specifications struct {
	Engine       string `json:"engine"`
	Transmission string `json:"transmission" validate:"required"`
	Drivetrain   string `json:"drivetrain" validate:"required"`
	Weight       string `json:"weight" validate:"required"`
	FuelEconomy  string `json:"fuelEconomy" validate:"required"`
}

// Spec is a single labelled entry of a vehicle's specifications
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entries returns the specifications in display order.
func (s Specifications) Entries() []Spec {
	return []Spec{
		{Key: "engine", Value: s.Engine},
		{Key: "transmission", Value: s.Transmission},
		{Key: "drivetrain", Value: s.Drivetrain},
		{Key: "weight", Value: s.Weight},
		{Key: "fuelEconomy", Value: s.FuelEconomy},
	}
}

var (
	ErrNegativePrice    = errors.New("price must be a positive number")
	ErrNegativeTopSpeed = errors.New("top speed must be a positive number")
)

// Validate checks the numeric invariants of a vehicle.
func (v Vehicle) Validate() error {
	if v.Price < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePrice, v.Price)
	}
	if v.TopSpeed < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeTopSpeed, v.TopSpeed)
	}
	return nil
}

// UnmarshalJSON accepts id, price and topSpeed as JSON numbers or numeric
// strings, the way records posted from an HTML form are stored. Fractional
// prices are rounded and fractional top speeds truncated, so integer minimum
// speed comparisons stay exact.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	type plain Vehicle
	aux := struct {
		*plain
		ID       json.RawMessage `json:"id"`
		Price    json.RawMessage `json:"price"`
		TopSpeed json.RawMessage `json:"topSpeed"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	numbers := []struct {
		name string
		raw  json.RawMessage
		set  func(n float64)
	}{
		{"id", aux.ID, func(n float64) { v.ID = int(n) }},
		{"price", aux.Price, func(n float64) { v.Price = int64(math.Round(n)) }},
		{"topSpeed", aux.TopSpeed, func(n float64) { v.TopSpeed = int(math.Floor(n)) }},
	}
	for _, f := range numbers {
		if len(f.raw) == 0 || string(f.raw) == "null" {
			continue
		}
		n, err := lenientNumber(f.name, f.raw)
		if err != nil {
			return err
		}
		f.set(n)
	}
	return nil
}

func lenientNumber(field string, raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%s: expected a number, got %s", field, raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%s: %q is not a number", field, s)
	}
	return n, nil
}
