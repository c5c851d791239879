package classify

import (
	"github.com/kolah/canon/internal/model"
)

// TypeExpr renders the textual type composition of c, for example
// "List<Map<String, Pet>>". Component names are passed through resolve.
// Shapes that can only be rendered through a named component yield "".
func TypeExpr(c Classification, resolve func(string) string) string {
	switch v := c.(type) {
	case String:
		return "String"
	case Enum:
		return "Enum"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case Boolean:
		return "Boolean"
	case Any:
		return "Any"
	case Ref:
		return resolve(v.Name)
	case List:
		return container(KindList, TypeExpr(v.Elem, resolve))
	case Set:
		return container(KindSet, TypeExpr(v.Elem, resolve))
	case Map:
		return container(KindMap, TypeExpr(v.Value, resolve))
	case MultiDimensional:
		return container(v.Container, nodeExpr(v.Element, resolve))
	default:
		return ""
	}
}

func container(kind Kind, elem string) string {
	switch kind {
	case KindSet:
		return "Set<" + elem + ">"
	case KindMap:
		return "Map<String, " + elem + ">"
	default:
		return "List<" + elem + ">"
	}
}

// nodeExpr synthesizes the type text of a multi-dimensional element
// directly from its node. Enumerations render as plain strings.
func nodeExpr(n model.Node, resolve func(string) string) string {
	switch v := n.(type) {
	case *model.Ref:
		return resolve(v.Name)
	case *model.Array:
		kind := KindList
		if v.UniqueItems {
			kind = KindSet
		}
		return container(kind, nodeExpr(v.Items, resolve))
	case *model.Map:
		if v.Values == nil {
			return container(KindMap, "Any")
		}
		return container(KindMap, nodeExpr(v.Values, resolve))
	case *model.Scalar:
		c, err := classifyScalar("", v)
		if err != nil {
			return "Any"
		}
		if _, ok := c.(Enum); ok {
			return "String"
		}
		return TypeExpr(c, resolve)
	case *model.Object:
		if len(v.Properties) == 0 {
			return "Any"
		}
		return "Object"
	case *model.Composition:
		return "Union"
	default:
		return "Any"
	}
}

// GoType renders c as a Go type expression. Sets render as slices and
// shapes that need a named component render as any.
func GoType(c Classification, resolve func(string) string) string {
	switch v := c.(type) {
	case String, Enum:
		return "string"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float:
		return "float32"
	case Double:
		return "float64"
	case Boolean:
		return "bool"
	case Any:
		return "map[string]any"
	case Ref:
		return resolve(v.Name)
	case List:
		return "[]" + GoType(v.Elem, resolve)
	case Set:
		return "[]" + GoType(v.Elem, resolve)
	case Map:
		return "map[string]" + GoType(v.Value, resolve)
	case MultiDimensional:
		return goNodeType(v.Container, v.Element, resolve)
	default:
		return "any"
	}
}

func goNodeType(kind Kind, elem model.Node, resolve func(string) string) string {
	var inner string
	switch v := elem.(type) {
	case *model.Array:
		k := KindList
		if v.UniqueItems {
			k = KindSet
		}
		inner = goNodeType(k, v.Items, resolve)
	case *model.Map:
		if v.Values == nil {
			inner = "map[string]any"
		} else {
			inner = goNodeType(KindMap, v.Values, resolve)
		}
	default:
		c, err := Classify("", elem)
		if err != nil || IsContainer(c) {
			inner = "any"
		} else {
			inner = GoType(c, resolve)
		}
	}

	if kind == KindMap {
		return "map[string]" + inner
	}
	return "[]" + inner
}
