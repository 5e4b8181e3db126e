package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Primitives(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		want   map[string]interface{}
	}{
		{
			name:   "plain string",
			schema: String(),
			want:   map[string]interface{}{"type": "string"},
		},
		{
			name:   "bounded string",
			schema: String().MinLength(1).MaxLength(2000),
			want:   map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 2000},
		},
		{
			name:   "number with bounds",
			schema: Number().Min(0).Max(100),
			want:   map[string]interface{}{"type": "number", "minimum": 0.0, "maximum": 100.0},
		},
		{
			name:   "integer overrides number type",
			schema: Integer().Min(1).Max(7),
			want:   map[string]interface{}{"type": "integer", "minimum": 1.0, "maximum": 7.0},
		},
		{
			name:   "boolean",
			schema: Boolean(),
			want:   map[string]interface{}{"type": "boolean"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schema.JSONMap())
		})
	}
}

func TestJSONMap_Enum(t *testing.T) {
	m := Enum("text", "voice", "category").JSONMap()
	assert.Equal(t, "string", m["type"])
	assert.Equal(t, []string{"text", "voice", "category"}, m["enum"])
}

func TestJSONMap_Union(t *testing.T) {
	m := Union(String(), Integer()).JSONMap()
	variants, ok := m["oneOf"].([]interface{})
	require.True(t, ok)
	require.Len(t, variants, 2)
	assert.Equal(t, "string", variants[0].(map[string]interface{})["type"])
	assert.Equal(t, "integer", variants[1].(map[string]interface{})["type"])
}

func TestJSONMap_Array(t *testing.T) {
	m := ArrayOf(String()).MinLength(2).MaxLength(100).JSONMap()
	assert.Equal(t, "array", m["type"])
	assert.Equal(t, 2, m["minLength"])
	assert.Equal(t, 100, m["maxLength"])
	items, ok := m["items"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "string", items["type"])
}

func TestJSONMap_ObjectRecursion(t *testing.T) {
	m := Object(map[string]*Schema{
		"id":    String(),
		"count": Integer(),
		"tags":  ArrayOf(String()),
	}).JSONMap()

	assert.Equal(t, "object", m["type"])
	props, ok := m["properties"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, props, 3)
	assert.Equal(t, "integer", props["count"].(map[string]interface{})["type"])
	assert.Equal(t, "array", props["tags"].(map[string]interface{})["type"])
}

func TestJSONMap_Wrappers(t *testing.T) {
	m := String().Optional().JSONMap()
	assert.Equal(t, true, m["optional"])

	m = String().Nullable().JSONMap()
	assert.Equal(t, true, m["nullable"])

	m = Integer().Default(50).JSONMap()
	assert.Equal(t, 50, m["default"])
	// a defaulted field is implicitly optional
	assert.Equal(t, true, m["optional"])

	m = String().Describe("Channel ID").JSONMap()
	assert.Equal(t, "Channel ID", m["description"])
}

func TestJSONMap_WrapperCombination(t *testing.T) {
	m := Enum("text", "voice").Default("text").Describe("Channel type").JSONMap()
	assert.Equal(t, "string", m["type"])
	assert.Equal(t, "text", m["default"])
	assert.Equal(t, true, m["optional"])
	assert.Equal(t, "Channel type", m["description"])
}

func TestJSONMap_UnknownKindFallsBack(t *testing.T) {
	// Introspection must not fail on an exotic shape
	s := &Schema{Kind: Kind("Timestamp")}
	assert.Equal(t, map[string]interface{}{"type": "timestamp"}, s.JSONMap())
}

func TestJSONMap_NilSchema(t *testing.T) {
	var s *Schema
	assert.Equal(t, map[string]interface{}{"type": "object"}, s.JSONMap())
}

func TestSerializeSchemas(t *testing.T) {
	out := SerializeSchemas(map[string]*Schema{
		"channel_id": String().Describe("Channel ID"),
		"limit":      Integer().Min(1).Max(100).Default(50),
	})

	require.Len(t, out, 2)
	ch := out["channel_id"].(map[string]interface{})
	assert.Equal(t, "string", ch["type"])
	limit := out["limit"].(map[string]interface{})
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, 50, limit["default"])
}
