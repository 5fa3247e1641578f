package inventory

import "strings"

// OtherColor is returned when a paint or trim name matches no canonical color.
const OtherColor = "other"

type canonEntry struct {
	Name     string
	Variants []string
}

// colorCanon maps canonical colors to the marketing names that resolve to
// them. Names like "Oxford Blue w/ Tan Trim" hit more than one entry, so the
// first entry in this order wins.
var colorCanon = []canonEntry{
	{Name: "blue", Variants: []string{"horizon blue metallic", "deep sea blue metallic", "oxford blue", "alpine blue"}},
	{Name: "red", Variants: []string{"crimson red", "candy apple red", "ruby red", "inferno red"}},
	{Name: "black", Variants: []string{"carbon black", "jet black", "titan black", "aurora black", "gravity grey"}},
	{Name: "white", Variants: []string{"oxford white", "pearl white", "arctic white", "alpine white"}},
	{Name: "silver", Variants: []string{"ice silver", "platinum silver", "brilliant silver", "sparkling silver"}},
	{Name: "gray", Variants: []string{"magnetic gray", "gunmetal gray", "stone gray"}},
	{Name: "beige", Variants: []string{"beige", "saddle brown", "tan"}},
	{Name: "green", Variants: []string{"kelly green", "forest green"}},
	{Name: "yellow", Variants: []string{"sunflower yellow", "bright yellow"}},
}

// NormalizeColor maps a free-text paint or trim name to its canonical color.
func NormalizeColor(fancy string) string {
	fancy = strings.ToLower(fancy)
	for _, entry := range colorCanon {
		for _, variant := range entry.Variants {
			if strings.Contains(fancy, variant) {
				return entry.Name
			}
		}
	}
	return OtherColor
}

// CanonicalColors lists the canonical color names in lookup order.
func CanonicalColors() []string {
	names := make([]string, 0, len(colorCanon))
	for _, entry := range colorCanon {
		names = append(names, entry.Name)
	}
	return names
}
