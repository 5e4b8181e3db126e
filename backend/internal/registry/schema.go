package registry

import "strings"

// Kind identifies the structural type of a schema descriptor
type Kind string

const (
	KindString  Kind = "String"
	KindNumber  Kind = "Number"
	KindInteger Kind = "Integer"
	KindBoolean Kind = "Boolean"
	KindArray   Kind = "Array"
	KindObject  Kind = "Object"
	KindEnum    Kind = "Enum"
	KindUnion   Kind = "Union"
)

// Schema is a structural, serializable description of one parameter or
// result field. It is independent of any validation library and is used
// purely for read-only introspection by the discovery meta-tools;
// parameter validation proper happens inside each handler.
type Schema struct {
	Kind        Kind
	Description string

	// Wrapper flags
	IsOptional bool
	IsNullable bool
	HasDefault bool
	DefaultVal interface{}

	// String/array length bounds
	MinLen *int
	MaxLen *int

	// Numeric bounds
	Minimum *float64
	Maximum *float64

	Elem     *Schema            // Array element
	Fields   map[string]*Schema // Object properties
	Values   []string           // Enum values
	Variants []*Schema          // Union variants
}

// String creates a string schema
func String() *Schema {
	return &Schema{Kind: KindString}
}

// Number creates a floating-point number schema
func Number() *Schema {
	return &Schema{Kind: KindNumber}
}

// Integer creates an integer schema
func Integer() *Schema {
	return &Schema{Kind: KindInteger}
}

// Boolean creates a boolean schema
func Boolean() *Schema {
	return &Schema{Kind: KindBoolean}
}

// ArrayOf creates an array schema with the given element schema
func ArrayOf(elem *Schema) *Schema {
	return &Schema{Kind: KindArray, Elem: elem}
}

// Object creates an object schema with named fields
func Object(fields map[string]*Schema) *Schema {
	return &Schema{Kind: KindObject, Fields: fields}
}

// Enum creates a string-enum schema over the given values
func Enum(values ...string) *Schema {
	return &Schema{Kind: KindEnum, Values: values}
}

// Union creates a schema matching any of the given variants
func Union(variants ...*Schema) *Schema {
	return &Schema{Kind: KindUnion, Variants: variants}
}

// Describe sets the human-readable description
func (s *Schema) Describe(desc string) *Schema {
	s.Description = desc
	return s
}

// Optional marks the field as optional
func (s *Schema) Optional() *Schema {
	s.IsOptional = true
	return s
}

// Nullable marks the field as accepting null
func (s *Schema) Nullable() *Schema {
	s.IsNullable = true
	return s
}

// Default sets a default value and marks the field optional
func (s *Schema) Default(v interface{}) *Schema {
	s.HasDefault = true
	s.DefaultVal = v
	s.IsOptional = true
	return s
}

// MinLength sets the minimum length for strings and arrays
func (s *Schema) MinLength(n int) *Schema {
	s.MinLen = &n
	return s
}

// MaxLength sets the maximum length for strings and arrays
func (s *Schema) MaxLength(n int) *Schema {
	s.MaxLen = &n
	return s
}

// Min sets the numeric lower bound
func (s *Schema) Min(v float64) *Schema {
	s.Minimum = &v
	return s
}

// Max sets the numeric upper bound
func (s *Schema) Max(v float64) *Schema {
	s.Maximum = &v
	return s
}

// JSONMap lowers the descriptor to a plain JSON-compatible tree for
// introspection responses. It never fails: unrecognized kinds lower to a
// best-effort {type: <kind>} so schema serialization can't break the
// discovery meta-tools.
func (s *Schema) JSONMap() map[string]interface{} {
	if s == nil {
		return map[string]interface{}{"type": "object"}
	}

	var m map[string]interface{}

	switch s.Kind {
	case KindString:
		m = map[string]interface{}{"type": "string"}
		if s.MinLen != nil {
			m["minLength"] = *s.MinLen
		}
		if s.MaxLen != nil {
			m["maxLength"] = *s.MaxLen
		}
	case KindNumber:
		m = map[string]interface{}{"type": "number"}
		if s.Minimum != nil {
			m["minimum"] = *s.Minimum
		}
		if s.Maximum != nil {
			m["maximum"] = *s.Maximum
		}
	case KindInteger:
		m = map[string]interface{}{"type": "integer"}
		if s.Minimum != nil {
			m["minimum"] = *s.Minimum
		}
		if s.Maximum != nil {
			m["maximum"] = *s.Maximum
		}
	case KindBoolean:
		m = map[string]interface{}{"type": "boolean"}
	case KindArray:
		m = map[string]interface{}{"type": "array"}
		if s.Elem != nil {
			m["items"] = s.Elem.JSONMap()
		}
		if s.MinLen != nil {
			m["minLength"] = *s.MinLen
		}
		if s.MaxLen != nil {
			m["maxLength"] = *s.MaxLen
		}
	case KindObject:
		props := make(map[string]interface{}, len(s.Fields))
		for name, field := range s.Fields {
			props[name] = field.JSONMap()
		}
		m = map[string]interface{}{"type": "object", "properties": props}
	case KindEnum:
		m = map[string]interface{}{"type": "string", "enum": s.Values}
	case KindUnion:
		variants := make([]interface{}, 0, len(s.Variants))
		for _, v := range s.Variants {
			variants = append(variants, v.JSONMap())
		}
		m = map[string]interface{}{"oneOf": variants}
	default:
		m = map[string]interface{}{"type": strings.ToLower(string(s.Kind))}
	}

	if s.IsOptional {
		m["optional"] = true
	}
	if s.IsNullable {
		m["nullable"] = true
	}
	if s.HasDefault {
		m["default"] = s.DefaultVal
	}
	if s.Description != "" {
		m["description"] = s.Description
	}

	return m
}

// SerializeSchemas lowers a named schema map (a tool's parameter or result
// contract) to a JSON-compatible tree
func SerializeSchemas(schemas map[string]*Schema) map[string]interface{} {
	out := make(map[string]interface{}, len(schemas))
	for name, s := range schemas {
		out[name] = s.JSONMap()
	}
	return out
}
