package tools

import (
	"reflect"
	"strings"
)

// typeToJSONSchema derives a JSON schema from a Go type. Pointer, slice, map
// and interface fields are optional; everything else is required. A
// `description` struct tag is copied onto the property.
func typeToJSONSchema(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		props := map[string]interface{}{}
		var requiredFields []string

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue
			}

			jsonName := jsonFieldName(f)
			if jsonName == "" {
				continue
			}

			fieldSchema := typeToJSONSchema(f.Type)
			if desc := f.Tag.Get("description"); desc != "" {
				fieldSchema["description"] = desc
			}
			props[jsonName] = fieldSchema

			switch f.Type.Kind() {
			case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			default:
				requiredFields = append(requiredFields, jsonName)
			}
		}

		if requiredFields == nil {
			requiredFields = []string{}
		}
		return map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   requiredFields,
		}

	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Int, reflect.Int64, reflect.Int32:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{
			"type":  "array",
			"items": typeToJSONSchema(t.Elem()),
		}
	case reflect.Map:
		return map[string]interface{}{
			"type":                 "object",
			"additionalProperties": typeToJSONSchema(t.Elem()),
		}
	case reflect.Interface:
		return map[string]interface{}{"type": "object"}
	default:
		return map[string]interface{}{"type": "string"}
	}
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	parts := strings.Split(tag, ",")
	return parts[0]
}
