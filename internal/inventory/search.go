package inventory

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"
)

// Superlative tags attached to the vehicle holding each extreme.
const (
	TagCheapest       = "💰 Cheapest"
	TagMostExpensive  = "💎 Most Expensive"
	TagLowestMileage  = "🛣️ Lowest Mileage"
	TagHighestMileage = "🚗 Highest Mileage"
	TagNewest         = "🆕 Newest"
	TagOldest         = "📜 Oldest"
)

// Searcher fetches the inventory and applies Criteria to it.
type Searcher struct {
	source  Source
	timeout time.Duration
}

func NewSearcher(source Source, timeout time.Duration) *Searcher {
	return &Searcher{
		source:  source,
		timeout: timeout,
	}
}

// Search returns at most c.Limit vehicles, best matches first. Upstream
// failures are logged and yield an empty result.
func (s *Searcher) Search(ctx context.Context, c Criteria) []Vehicle {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cars, err := s.source.Fetch(ctx)
	if err != nil {
		slog.Error("Failed to fetch inventory", "error", err)
		return []Vehicle{}
	}

	results := Rank(cars, c)
	slog.Debug("Inventory search completed", "fetched", len(cars), "returned", len(results))
	return results
}

// Rank filters, scores, highlights and truncates cars. The input slice is
// not modified.
func Rank(cars []Vehicle, c Criteria) []Vehicle {
	annotated := make([]Vehicle, len(cars))
	for i, car := range cars {
		car.NormalizedExterior = NormalizeColor(car.ExteriorColor)
		car.NormalizedInterior = NormalizeColor(car.InteriorColor)
		car.Highlights = ""
		annotated[i] = car
	}

	checks := c.checks()
	filtered := filter(annotated, checks, true)
	if len(filtered) == 0 && c.RelaxFilters {
		slog.Debug("No strict matches, relaxing make/model filters")
		filtered = filter(annotated, checks, false)
	}

	scores := make([]int, len(filtered))
	order := make([]int, len(filtered))
	for i := range filtered {
		scores[i] = score(&filtered[i], checks)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	ranked := make([]Vehicle, 0, len(filtered))
	for _, idx := range order {
		ranked = append(ranked, filtered[idx])
	}

	highlight(ranked)

	if limit := c.limit(); len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// check reports whether v satisfies one criterion. strict only changes how
// make and model are compared.
type check func(v *Vehicle, strict bool) bool

func (c Criteria) checks() []check {
	var checks []check
	if c.Make != "" {
		want := strings.ToLower(c.Make)
		checks = append(checks, func(v *Vehicle, strict bool) bool {
			return matchText(v.Make, want, strict)
		})
	}
	if c.Model != "" {
		want := strings.ToLower(c.Model)
		checks = append(checks, func(v *Vehicle, strict bool) bool {
			return matchText(v.Model, want, strict)
		})
	}
	if c.Year != 0 {
		checks = append(checks, func(v *Vehicle, _ bool) bool {
			return v.Year != nil && *v.Year == c.Year
		})
	}
	if c.MaxPrice != 0 {
		checks = append(checks, func(v *Vehicle, _ bool) bool {
			return floatOr(v.Price, 0) <= c.MaxPrice
		})
	}
	if c.MaxMileage != 0 {
		checks = append(checks, func(v *Vehicle, _ bool) bool {
			return intOr(v.Mileage, 0) <= c.MaxMileage
		})
	}
	if c.ExteriorColor != "" {
		want := strings.ToLower(c.ExteriorColor)
		checks = append(checks, func(v *Vehicle, _ bool) bool {
			return v.NormalizedExterior == want
		})
	}
	if c.InteriorColor != "" {
		want := strings.ToLower(c.InteriorColor)
		checks = append(checks, func(v *Vehicle, _ bool) bool {
			return v.NormalizedInterior == want
		})
	}
	return checks
}

func matchText(have, want string, strict bool) bool {
	have = strings.ToLower(have)
	if strict {
		return have == want
	}
	return strings.Contains(have, want)
}

func filter(cars []Vehicle, checks []check, strict bool) []Vehicle {
	out := make([]Vehicle, 0, len(cars))
	for i := range cars {
		keep := true
		for _, ok := range checks {
			if !ok(&cars[i], strict) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, cars[i])
		}
	}
	return out
}

// score counts the criteria v satisfies, comparing make and model by
// substring so partial matches from a relaxed pass still rank.
func score(v *Vehicle, checks []check) int {
	n := 0
	for _, ok := range checks {
		if ok(v, false) {
			n++
		}
	}
	return n
}

// highlight tags the extremes of cars in place. Ties go to the first
// vehicle scanned; missing values compare as the worst case.
func highlight(cars []Vehicle) {
	if len(cars) == 0 {
		return
	}

	inf := math.Inf(1)
	price := func(v *Vehicle, missing float64) float64 { return floatOr(v.Price, missing) }
	mileage := func(v *Vehicle, missing float64) float64 {
		if v.Mileage == nil {
			return missing
		}
		return float64(*v.Mileage)
	}
	year := func(v *Vehicle, missing float64) float64 {
		if v.Year == nil {
			return missing
		}
		return float64(*v.Year)
	}

	tags := []struct {
		idx int
		tag string
	}{
		{argMin(cars, func(v *Vehicle) float64 { return price(v, inf) }), TagCheapest},
		{argMax(cars, func(v *Vehicle) float64 { return price(v, 0) }), TagMostExpensive},
		{argMin(cars, func(v *Vehicle) float64 { return mileage(v, inf) }), TagLowestMileage},
		{argMax(cars, func(v *Vehicle) float64 { return mileage(v, 0) }), TagHighestMileage},
		{argMax(cars, func(v *Vehicle) float64 { return year(v, 0) }), TagNewest},
		{argMin(cars, func(v *Vehicle) float64 { return year(v, inf) }), TagOldest},
	}

	flags := make([][]string, len(cars))
	for _, t := range tags {
		flags[t.idx] = append(flags[t.idx], t.tag)
	}
	for i := range cars {
		cars[i].Highlights = strings.Join(flags[i], ", ")
	}
}

func argMin(cars []Vehicle, key func(*Vehicle) float64) int {
	best, bestVal := 0, key(&cars[0])
	for i := 1; i < len(cars); i++ {
		if v := key(&cars[i]); v < bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

func argMax(cars []Vehicle, key func(*Vehicle) float64) int {
	best, bestVal := 0, key(&cars[0])
	for i := 1; i < len(cars); i++ {
		if v := key(&cars[i]); v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
