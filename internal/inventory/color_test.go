package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact variant", "jet black", "black"},
		{"mixed case", "Alpine White", "white"},
		{"variant inside longer name", "Horizon Blue Metallic w/ Sport Pkg", "blue"},
		{"grey spelled variant maps to black", "Gravity Grey", "black"},
		{"trim color", "Saddle Brown Leather", "beige"},
		{"tan substring", "Tan", "beige"},
		{"unknown", "Mystic Purple", OtherColor},
		{"empty", "", OtherColor},
		{"first canon entry wins", "Oxford Blue / Tan", "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColor(tt.input))
		})
	}
}

func TestCanonicalColors(t *testing.T) {
	assert.Equal(t,
		[]string{"blue", "red", "black", "white", "silver", "gray", "beige", "green", "yellow"},
		CanonicalColors(),
	)
}

func TestNormalizeColorCoversEveryVariant(t *testing.T) {
	for _, entry := range colorCanon {
		for _, variant := range entry.Variants {
			assert.Equal(t, entry.Name, NormalizeColor(variant), "variant %q", variant)
		}
	}
}
