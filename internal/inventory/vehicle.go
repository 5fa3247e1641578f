package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit is the number of vehicles returned when Criteria.Limit is unset.
const DefaultLimit = 5

// Vehicle is a single inventory listing as served by the upstream feed.
// Numeric fields are pointers so a missing value is not mistaken for zero.
type Vehicle struct {
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Year          *int     `json:"year,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Mileage       *int     `json:"mileage,omitempty"`
	ExteriorColor string   `json:"exterior_color,omitempty"`
	InteriorColor string   `json:"interior_color,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Link          string   `json:"link,omitempty"`

	// Derived per search, never sent upstream.
	NormalizedExterior string `json:"normalized_exterior,omitempty"`
	NormalizedInterior string `json:"normalized_interior,omitempty"`
	Highlights         string `json:"highlights,omitempty"`
}

// UnmarshalJSON reads year, price and mileage leniently: numbers, numbers
// written as floats ("30000.0") and numeric strings ("$25,000") are all
// accepted. Anything else leaves the field unset instead of failing.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	type plain Vehicle
	aux := struct {
		*plain
		Year    json.RawMessage `json:"year"`
		Price   json.RawMessage `json:"price"`
		Mileage json.RawMessage `json:"mileage"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	v.Price = looseFloat(aux.Price)
	v.Year = looseInt(aux.Year)
	v.Mileage = looseInt(aux.Mileage)
	return nil
}

func looseFloat(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func looseInt(raw json.RawMessage) *int {
	f := looseFloat(raw)
	if f == nil || math.Abs(*f) > math.MaxInt32 {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

// Criteria narrows a search. Zero values are wildcards.
type Criteria struct {
	Make          string
	Model         string
	Year          int
	MaxPrice      float64
	MaxMileage    int
	ExteriorColor string
	InteriorColor string

	// RelaxFilters retries with substring make/model matching when the
	// strict pass finds nothing.
	RelaxFilters bool
	Limit        int
}

func (c Criteria) limit() int {
	if c.Limit <= 0 {
		return DefaultLimit
	}
	return c.Limit
}

// Source provides the full inventory. Implementations must not filter.
type Source interface {
	Fetch(ctx context.Context) ([]Vehicle, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Vehicle, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]Vehicle, error) {
	return f(ctx)
}
