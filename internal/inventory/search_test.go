package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func car(mk, model string, year int, price float64, mileage int) Vehicle {
	return Vehicle{
		Make:    mk,
		Model:   model,
		Year:    ptr(year),
		Price:   ptr(price),
		Mileage: ptr(mileage),
	}
}

func years(cars []Vehicle) []int {
	out := make([]int, 0, len(cars))
	for _, c := range cars {
		out = append(out, *c.Year)
	}
	return out
}

func TestRankFiltersBeforeComputingExtremes(t *testing.T) {
	cars := []Vehicle{
		car("BMW", "3 Series", 2020, 20000, 30000),
		car("BMW", "3 Series", 2021, 25000, 10000),
		car("BMW", "3 Series", 2022, 30000, 5000),
	}

	got := Rank(cars, Criteria{Make: "BMW", MaxPrice: 27000})

	require.Len(t, got, 2)
	assert.Equal(t, []int{2020, 2021}, years(got), "equal scores keep source order")
	assert.Equal(t, TagCheapest+", "+TagHighestMileage+", "+TagOldest, got[0].Highlights)
	assert.Equal(t, TagMostExpensive+", "+TagLowestMileage+", "+TagNewest, got[1].Highlights)
}

func TestRankStrictNeverViolatesCriteria(t *testing.T) {
	cars := []Vehicle{
		car("BMW", "3 Series", 2020, 20000, 30000),
		car("bmw", "3 series", 2020, 21000, 20000),
		car("BMW M", "3 Series", 2020, 19000, 10000),
		car("BMW", "3 Series", 2021, 20000, 30000),
		car("BMW", "3 Series", 2020, 40000, 30000),
		car("BMW", "3 Series", 2020, 20000, 90000),
	}
	c := Criteria{Make: "BMW", Model: "3 Series", Year: 2020, MaxPrice: 30000, MaxMileage: 50000, Limit: 10}

	got := Rank(cars, c)

	require.Len(t, got, 2)
	for _, v := range got {
		assert.Equal(t, "bmw", strings.ToLower(v.Make))
		assert.Equal(t, "3 series", strings.ToLower(v.Model))
		assert.Equal(t, 2020, *v.Year)
		assert.LessOrEqual(t, *v.Price, 30000.0)
		assert.LessOrEqual(t, *v.Mileage, 50000)
	}
}

func TestRankRelaxedFallback(t *testing.T) {
	cars := []Vehicle{
		car("Toyota", "Camry", 2019, 18000, 40000),
		car("BMW", "3 Series", 2021, 25000, 10000),
		car("BMW", "330i", 2022, 31000, 8000),
	}

	t.Run("strict miss without relaxation is empty", func(t *testing.T) {
		got := Rank(cars, Criteria{Model: "3"})
		assert.Empty(t, got)
	})

	t.Run("strict miss with relaxation uses substring match", func(t *testing.T) {
		got := Rank(cars, Criteria{Model: "3", RelaxFilters: true})
		assert.Equal(t, []int{2021, 2022}, years(got))
	})

	t.Run("strict hit ignores relaxation", func(t *testing.T) {
		got := Rank(cars, Criteria{Model: "330i", RelaxFilters: true})
		assert.Equal(t, []int{2022}, years(got))
	})

	t.Run("relaxed results are a superset of strict results", func(t *testing.T) {
		strict := Rank(cars, Criteria{Make: "bmw", Limit: 10})
		relaxed := Rank(cars, Criteria{Make: "bm", RelaxFilters: true, Limit: 10})
		assert.Subset(t, years(relaxed), years(strict))
	})
}

func TestRankColorFilters(t *testing.T) {
	blue := car("Ford", "Mustang", 2020, 30000, 10000)
	blue.ExteriorColor = "Deep Sea Blue Metallic"
	blue.InteriorColor = "Jet Black Leather"
	red := car("Ford", "Mustang", 2021, 32000, 9000)
	red.ExteriorColor = "Ruby Red"
	red.InteriorColor = "Saddle Brown"

	got := Rank([]Vehicle{blue, red}, Criteria{ExteriorColor: "Blue"})
	require.Len(t, got, 1)
	assert.Equal(t, "blue", got[0].NormalizedExterior)
	assert.Equal(t, "black", got[0].NormalizedInterior)

	got = Rank([]Vehicle{blue, red}, Criteria{InteriorColor: "beige"})
	require.Len(t, got, 1)
	assert.Equal(t, 2021, *got[0].Year)
}

func TestRankTruncatesAfterHighlighting(t *testing.T) {
	cars := []Vehicle{
		car("Honda", "Civic", 2018, 10000, 50000),
		car("Honda", "Civic", 2019, 50000, 40000),
		car("Honda", "Civic", 2020, 5000, 30000),
	}

	got := Rank(cars, Criteria{Make: "Honda", Limit: 2})

	require.Len(t, got, 2)
	for _, v := range got {
		assert.NotContains(t, v.Highlights, TagCheapest, "cheapest record ranked outside the window")
	}
	assert.Contains(t, got[1].Highlights, TagMostExpensive)
}

func TestRankDefaultLimit(t *testing.T) {
	cars := make([]Vehicle, 0, 8)
	for i := 0; i < 8; i++ {
		cars = append(cars, car("Kia", "Soul", 2010+i, 10000, 1000))
	}

	assert.Len(t, Rank(cars, Criteria{}), DefaultLimit)
	assert.Len(t, Rank(cars, Criteria{Limit: 3}), 3)
	assert.Len(t, Rank(cars, Criteria{Limit: 20}), 8)
}

func TestRankMissingValues(t *testing.T) {
	noPrice := Vehicle{Make: "Mazda", Model: "3", Year: ptr(2020), Mileage: ptr(100)}
	priced := car("Mazda", "3", 2019, 15000, 200)

	got := Rank([]Vehicle{noPrice, priced}, Criteria{MaxPrice: 20000})

	require.Len(t, got, 2, "missing price passes a price bound")
	assert.NotContains(t, got[0].Highlights, TagCheapest)
	assert.NotContains(t, got[0].Highlights, TagMostExpensive)
	assert.Contains(t, got[1].Highlights, TagCheapest)
	assert.Contains(t, got[1].Highlights, TagMostExpensive)

	noYear := Vehicle{Make: "Mazda", Model: "3", Price: ptr(1.0)}
	got = Rank([]Vehicle{noYear}, Criteria{Year: 2020})
	assert.Empty(t, got, "missing year never matches a year filter")
}

func TestRankTiesGoToFirstScanned(t *testing.T) {
	cars := []Vehicle{
		car("VW", "Golf", 2020, 20000, 100),
		car("VW", "Golf", 2020, 20000, 100),
	}

	got := Rank(cars, Criteria{})

	require.Len(t, got, 2)
	assert.Equal(t, TagCheapest+", "+TagMostExpensive+", "+TagLowestMileage+", "+TagHighestMileage+", "+TagNewest+", "+TagOldest, got[0].Highlights)
	assert.Empty(t, got[1].Highlights)
}

func TestRankDoesNotModifyInput(t *testing.T) {
	cars := []Vehicle{car("VW", "Golf", 2020, 20000, 100)}
	cars[0].ExteriorColor = "Pearl White"

	_ = Rank(cars, Criteria{})

	assert.Empty(t, cars[0].NormalizedExterior)
	assert.Empty(t, cars[0].Highlights)
}

func TestSearcherSearch(t *testing.T) {
	cars := []Vehicle{
		car("BMW", "3 Series", 2020, 20000, 30000),
		car("Audi", "A4", 2021, 25000, 10000),
	}

	t.Run("ranks fetched inventory", func(t *testing.T) {
		s := NewSearcher(SourceFunc(func(ctx context.Context) ([]Vehicle, error) {
			return cars, nil
		}), time.Second)

		got := s.Search(context.Background(), Criteria{Make: "audi"})
		require.Len(t, got, 1)
		assert.Equal(t, "A4", got[0].Model)
	})

	t.Run("upstream failure yields empty result", func(t *testing.T) {
		s := NewSearcher(SourceFunc(func(ctx context.Context) ([]Vehicle, error) {
			return nil, errors.New("connection refused")
		}), time.Second)

		got := s.Search(context.Background(), Criteria{Make: "audi"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty inventory yields empty result", func(t *testing.T) {
		s := NewSearcher(SourceFunc(func(ctx context.Context) ([]Vehicle, error) {
			return nil, nil
		}), 0)

		assert.Empty(t, s.Search(context.Background(), Criteria{Make: "audi", RelaxFilters: true}))
	})

	t.Run("fetch runs under the configured timeout", func(t *testing.T) {
		s := NewSearcher(SourceFunc(func(ctx context.Context) ([]Vehicle, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}), 10*time.Millisecond)

		assert.Empty(t, s.Search(context.Background(), Criteria{}))
	})
}
