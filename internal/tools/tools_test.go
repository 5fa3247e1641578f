package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/dealer-assistant/internal/inventory"
)

func TestSearchInventoryDefinition(t *testing.T) {
	tool := SearchInventory()
	f := tool.Function

	assert.Equal(t, SearchInventoryName, f.Value.Name.Value)
	assert.Equal(t, "Retrieve car inventory based on filters", f.Value.Description.Value)

	schema := checkSchemaFormat(t, f.Value.Parameters.Value, reflect.TypeOf(SearchArgs{}))

	assert.Empty(t, schema["required"], "every search argument is optional")

	props := schema["properties"].(map[string]interface{})
	assert.Equal(t, "integer", props["year"].(map[string]interface{})["type"])
	assert.Equal(t, "number", props["max_price"].(map[string]interface{})["type"])
	assert.Equal(t, "integer", props["max_mileage"].(map[string]interface{})["type"])
	assert.Equal(t, "integer", props["limit"].(map[string]interface{})["type"])
	assert.Contains(t, props["exterior_color"].(map[string]interface{})["description"], "silver")
	assert.NotContains(t, props, "relax_filters", "relaxation is decided by the server, not the model")
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, SearchInventoryName, defs[0].Function.Value.Name.Value)
}

func checkSchemaFormat(t *testing.T, params openai.FunctionParameters, typ reflect.Type) map[string]interface{} {
	data, err := json.Marshal(params)
	require.NoError(t, err, "failed to marshal parameters to JSON")

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema), "failed to unmarshal schema")

	assert.Equal(t, "object", schema["type"], "top-level schema should be type object")

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.NotEmpty(t, props, "expected properties in schema")

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" {
			continue
		}
		jsonName := jsonFieldName(f)
		if jsonName == "" {
			continue
		}
		_, fieldPresent := props[jsonName]
		assert.Truef(t, fieldPresent, "expected field %q in properties", jsonName)
	}
	return schema
}

func TestTypeToJSONSchemaRequiredFields(t *testing.T) {
	type sample struct {
		Name     string   `json:"name"`
		Nickname *string  `json:"nickname"`
		Tags     []string `json:"tags"`
		Skip     string   `json:"-"`
		hidden   string
	}

	schema := typeToJSONSchema(reflect.TypeOf(sample{}))

	assert.Equal(t, []string{"name"}, schema["required"])
	props := schema["properties"].(map[string]interface{})
	assert.Len(t, props, 3)
	assert.Equal(t, "array", props["tags"].(map[string]interface{})["type"])
}

func TestParseSearchArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want inventory.Criteria
	}{
		{
			name: "all fields",
			raw:  `{"make":" BMW ","model":"3 Series","year":2021,"max_price":27000.5,"max_mileage":40000,"exterior_color":"blue","interior_color":"black","limit":3}`,
			want: inventory.Criteria{
				Make: "BMW", Model: "3 Series", Year: 2021, MaxPrice: 27000.5, MaxMileage: 40000,
				ExteriorColor: "blue", InteriorColor: "black", Limit: 3,
			},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: inventory.Criteria{},
		},
		{
			name: "empty string",
			raw:  ``,
			want: inventory.Criteria{},
		},
		{
			name: "nulls are unset",
			raw:  `{"make":null,"year":null}`,
			want: inventory.Criteria{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchArgs(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSearchArgsInvalid(t *testing.T) {
	for name, raw := range map[string]string{
		"malformed json":  `{"make":`,
		"unknown field":   `{"trim":"M Sport"}`,
		"wrong type":      `{"year":"2021"}`,
		"negative limit":  `{"limit":-1}`,
		"zero limit":      `{"limit":0}`,
		"not an object":   `["BMW"]`,
		"fractional year": `{"year":2021.5}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSearchArgs(raw)
			assert.ErrorIs(t, err, ErrInvalidArguments)
		})
	}
}
