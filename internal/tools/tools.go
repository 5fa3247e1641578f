package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/openai/openai-go"

	"github.com/sozercan/dealer-assistant/internal/inventory"
)

// SearchInventoryName is the tool name the model uses to request a search.
const SearchInventoryName = "get_cars"

// ErrInvalidArguments is returned when the model's tool arguments cannot be
// turned into search criteria.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// SearchArgs is the argument object of the get_cars tool. Every field is
// optional.
type SearchArgs struct {
	Make          *string  `json:"make,omitempty" description:"Vehicle make, e.g. BMW"`
	Model         *string  `json:"model,omitempty" description:"Vehicle model, e.g. 3 Series"`
	Year          *int     `json:"year,omitempty" description:"Exact model year"`
	MaxPrice      *float64 `json:"max_price,omitempty" description:"Maximum price in dollars"`
	MaxMileage    *int     `json:"max_mileage,omitempty" description:"Maximum odometer reading in miles"`
	ExteriorColor *string  `json:"exterior_color,omitempty"`
	InteriorColor *string  `json:"interior_color,omitempty"`
	Limit         *int     `json:"limit,omitempty" description:"Number of cars to show, default 5"`
}

// SearchInventory declares the get_cars tool with a schema derived from
// SearchArgs.
func SearchInventory() openai.ChatCompletionToolParam {
	schema := typeToJSONSchema(reflect.TypeOf(SearchArgs{}))

	colorDesc := "One of: " + strings.Join(inventory.CanonicalColors(), ", ")
	props := schema["properties"].(map[string]interface{})
	props["exterior_color"].(map[string]interface{})["description"] = "Exterior color. " + colorDesc
	props["interior_color"].(map[string]interface{})["description"] = "Interior color. " + colorDesc

	return openai.ChatCompletionToolParam{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name:        openai.String(SearchInventoryName),
			Description: openai.String("Retrieve car inventory based on filters"),
			Parameters:  openai.F(openai.FunctionParameters(schema)),
		}),
	}
}

// Definitions lists every tool offered to the model.
func Definitions() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{SearchInventory()}
}

// ParseSearchArgs decodes get_cars arguments into search criteria. Unknown
// fields and wrongly typed values are rejected.
func ParseSearchArgs(raw string) (inventory.Criteria, error) {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}

	var args SearchArgs
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return inventory.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	var c inventory.Criteria
	if args.Make != nil {
		c.Make = strings.TrimSpace(*args.Make)
	}
	if args.Model != nil {
		c.Model = strings.TrimSpace(*args.Model)
	}
	if args.Year != nil {
		c.Year = *args.Year
	}
	if args.MaxPrice != nil {
		c.MaxPrice = *args.MaxPrice
	}
	if args.MaxMileage != nil {
		c.MaxMileage = *args.MaxMileage
	}
	if args.ExteriorColor != nil {
		c.ExteriorColor = strings.TrimSpace(*args.ExteriorColor)
	}
	if args.InteriorColor != nil {
		c.InteriorColor = strings.TrimSpace(*args.InteriorColor)
	}
	if args.Limit != nil {
		if *args.Limit <= 0 {
			return inventory.Criteria{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArguments, *args.Limit)
		}
		c.Limit = *args.Limit
	}
	return c, nil
}
