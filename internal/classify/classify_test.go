package classify

import (
	"errors"
	"testing"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	"github.com/stretchr/testify/require"
)

func str() *model.Scalar { return &model.Scalar{Type: model.TypeString} }

func list(items model.Node) *model.Array { return &model.Array{Items: items} }

func mapOf(values model.Node) *model.Map { return &model.Map{Values: values} }

func TestClassify(t *testing.T) {
	inlineObject := &model.Object{Properties: []model.Property{{Name: "a", Schema: str()}}}

	tests := []struct {
		name     string
		node     model.Node
		expected Classification
	}{
		{"reference", &model.Ref{Name: "Pet"}, Ref{Name: "Pet"}},
		{"all-of", &model.Composition{Kind: model.AllOf}, StructuralUnion{}},
		{"one-of", &model.Composition{Kind: model.OneOf}, PolymorphicUnion{}},
		{"any-of", &model.Composition{Kind: model.AnyOf}, PolymorphicUnion{}},
		{"string", str(), String{}},
		{"string with format", &model.Scalar{Type: model.TypeString, Format: "date-time"}, String{}},
		{"enum", &model.Scalar{Type: model.TypeString, Enum: []any{"a", "b"}}, Enum{Values: []any{"a", "b"}}},
		{"boolean", &model.Scalar{Type: model.TypeBoolean}, Boolean{}},
		{"integer without format", &model.Scalar{Type: model.TypeInteger}, Int32{}},
		{"number without format", &model.Scalar{Type: model.TypeNumber}, Int32{}},
		{"int64", &model.Scalar{Type: model.TypeInteger, Format: "int64"}, Int64{}},
		{"int32", &model.Scalar{Type: model.TypeInteger, Format: "int32"}, Int32{}},
		{"float", &model.Scalar{Type: model.TypeNumber, Format: "float"}, Float{}},
		{"double upper case", &model.Scalar{Type: model.TypeNumber, Format: "DOUBLE"}, Double{}},
		{"list", list(str()), List{Elem: String{}}},
		{"set", &model.Array{Items: str(), UniqueItems: true}, Set{Elem: String{}}},
		{"map", mapOf(&model.Ref{Name: "Pet"}), Map{Value: Ref{Name: "Pet"}}},
		{"unconstrained map", &model.Map{}, Map{Value: Any{}}},
		{"object", inlineObject, Object{}},
		{"empty object", &model.Object{}, Any{}},
		{"list of map", list(mapOf(&model.Ref{Name: "Foo"})), List{Elem: Map{Value: Ref{Name: "Foo"}}}},
		{"list of enum", list(&model.Scalar{Type: model.TypeString, Enum: []any{"x"}}), List{Elem: Enum{Values: []any{"x"}}}},
		{"list of inline object", list(inlineObject), List{Elem: Object{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify("schemas.X", tt.node)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifyMultiDimensional(t *testing.T) {
	inner := list(list(str()))
	got, err := Classify("schemas.Grid", list(inner))
	require.NoError(t, err)

	md, ok := got.(MultiDimensional)
	require.True(t, ok)
	require.Equal(t, KindList, md.Container)
	require.Same(t, inner, md.Element)
	require.False(t, md.Inline)

	got, err = Classify("schemas.Deep", mapOf(list(mapOf(&model.Object{Properties: []model.Property{{Name: "a", Schema: str()}}}))))
	require.NoError(t, err)
	md = got.(MultiDimensional)
	require.Equal(t, KindMap, md.Container)
	require.True(t, md.Inline)

	// a container of a multi-dimensional element stays multi-dimensional
	got, err = Classify("schemas.Deeper", &model.Array{UniqueItems: true, Items: list(inner)})
	require.NoError(t, err)
	require.Equal(t, KindSet, got.(MultiDimensional).Container)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name     string
		node     model.Node
		sentinel error
		path     string
	}{
		{
			name:     "unknown format",
			node:     &model.Scalar{Type: model.TypeInteger, Format: "int128"},
			sentinel: errs.ErrUnsupportedFormat,
			path:     "schemas.X",
		},
		{
			name:     "unknown type",
			node:     &model.Scalar{Type: "file"},
			sentinel: errs.ErrUnsupportedType,
			path:     "schemas.X",
		},
		{
			name:     "missing items",
			node:     &model.Array{},
			sentinel: errs.ErrMissingItems,
			path:     "schemas.X",
		},
		{
			name:     "nested error carries item path",
			node:     list(mapOf(&model.Scalar{Type: model.TypeNumber, Format: "decimal"})),
			sentinel: errs.ErrUnsupportedFormat,
			path:     "schemas.X.items.additionalProperties",
		},
		{
			name:     "integer enum",
			node:     &model.Scalar{Type: model.TypeInteger, Enum: []any{1, 2}},
			sentinel: errs.ErrUnsupportedEnum,
			path:     "schemas.X",
		},
		{
			name:     "nil node",
			node:     nil,
			sentinel: errs.ErrMalformedDocument,
			path:     "schemas.X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify("schemas.X", tt.node)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.sentinel))
			require.True(t, errs.IsKind(err, errs.KindClassification))
			require.Equal(t, tt.path, errs.PathOf(err))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := list(mapOf(&model.Ref{Name: "Foo"}))
	b := list(mapOf(&model.Ref{Name: "Foo"}))

	first, err := Classify("a", a)
	require.NoError(t, err)
	_, err = Classify("other", &model.Scalar{Type: model.TypeInteger, Format: "int64"})
	require.NoError(t, err)
	second, err := Classify("b", b)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestTypeExpr(t *testing.T) {
	resolve := func(name string) string { return name + "Model" }

	tests := []struct {
		name     string
		node     model.Node
		expected string
		goType   string
	}{
		{"string", str(), "String", "string"},
		{"reference", &model.Ref{Name: "Foo"}, "FooModel", "FooModel"},
		{"list of map", list(mapOf(&model.Ref{Name: "Foo"})), "List<Map<String, FooModel>>", "[]map[string]FooModel"},
		{"set of int64", &model.Array{UniqueItems: true, Items: &model.Scalar{Type: model.TypeInteger, Format: "int64"}}, "Set<Int64>", "[]int64"},
		{"unconstrained map", &model.Map{}, "Map<String, Any>", "map[string]map[string]any"},
		{"list of enum", list(&model.Scalar{Type: model.TypeString, Enum: []any{"a"}}), "List<Enum>", "[]string"},
		{
			"multi-dimensional",
			list(list(mapOf(&model.Scalar{Type: model.TypeNumber, Format: "double"}))),
			"List<List<Map<String, Double>>>",
			"[][]map[string]float64",
		},
		{
			"multi-dimensional enum renders as string",
			mapOf(list(list(&model.Scalar{Type: model.TypeString, Enum: []any{"a"}}))),
			"Map<String, List<List<String>>>",
			"map[string][][]string",
		},
		{"object needs a name", &model.Object{Properties: []model.Property{{Name: "a", Schema: str()}}}, "", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify("x", tt.node)
			require.NoError(t, err)
			require.Equal(t, tt.expected, TypeExpr(c, resolve))
			require.Equal(t, tt.goType, GoType(c, resolve))
		})
	}
}

func TestSame(t *testing.T) {
	require.True(t, Same(String{}, String{}))
	require.True(t, Same(Enum{Values: []any{"a"}}, Enum{Values: []any{"b"}}))
	require.False(t, Same(String{}, Int32{}))
	require.True(t, Same(Ref{Name: "A"}, Ref{Name: "A"}))
	require.False(t, Same(Ref{Name: "A"}, Ref{Name: "B"}))
	require.True(t, Same(List{Elem: Ref{Name: "A"}}, List{Elem: Ref{Name: "A"}}))
	require.False(t, Same(List{Elem: Ref{Name: "A"}}, Set{Elem: Ref{Name: "A"}}))
	require.False(t, Same(Map{Value: Int32{}}, Map{Value: Int64{}}))
}

func TestEnumValues(t *testing.T) {
	require.Equal(t, []any{"a"}, EnumValues(Enum{Values: []any{"a"}}))
	require.Equal(t, []any{"a"}, EnumValues(List{Elem: Enum{Values: []any{"a"}}}))
	require.Nil(t, EnumValues(List{Elem: List{Elem: Enum{Values: []any{"a"}}}}))
	require.Nil(t, EnumValues(String{}))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "POLYMORPHIC_UNION", PolymorphicUnion{}.Kind().String())
	require.Equal(t, "MULTI_DIMENSIONAL", MultiDimensional{}.Kind().String())
	require.Equal(t, "UNKNOWN", Kind(99).String())
}
