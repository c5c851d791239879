// Package classify maps schema nodes onto the closed set of shapes the
// emitter knows how to render.
package classify

import "github.com/kolah/canon/internal/model"

type Kind int

const (
	KindString Kind = iota
	KindEnum
	KindInt32
	KindInt64
	KindFloat
	KindDouble
	KindBoolean
	KindRef
	KindObject
	KindAny
	KindList
	KindSet
	KindMap
	KindMultiDimensional
	KindStructuralUnion
	KindPolymorphicUnion
)

var kindNames = map[Kind]string{
	KindString:           "STRING",
	KindEnum:             "ENUM",
	KindInt32:            "INT32",
	KindInt64:            "INT64",
	KindFloat:            "FLOAT",
	KindDouble:           "DOUBLE",
	KindBoolean:          "BOOLEAN",
	KindRef:              "REF",
	KindObject:           "OBJECT",
	KindAny:              "ANY",
	KindList:             "LIST",
	KindSet:              "SET",
	KindMap:              "MAP",
	KindMultiDimensional: "MULTI_DIMENSIONAL",
	KindStructuralUnion:  "STRUCTURAL_UNION",
	KindPolymorphicUnion: "POLYMORPHIC_UNION",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Classification is the shape computed for a node.
type Classification interface {
	Kind() Kind
	sealed()
}

type (
	String  struct{}
	Int32   struct{}
	Int64   struct{}
	Float   struct{}
	Double  struct{}
	Boolean struct{}
	// Any is an object without declared properties.
	Any             struct{}
	Object          struct{}
	StructuralUnion struct{}
	// PolymorphicUnion covers both one-of and any-of.
	PolymorphicUnion struct{}
)

type Enum struct {
	Values []any
}

type Ref struct {
	Name string
}

type List struct {
	Elem Classification
}

type Set struct {
	Elem Classification
}

type Map struct {
	Value Classification
}

// MultiDimensional is a container nested more than two levels deep. Only
// the raw element node is kept; its type text is synthesized from it.
type MultiDimensional struct {
	Container Kind
	Element   model.Node
	// Inline is set when the innermost element is an inline object or
	// union that still has to be named.
	Inline bool
}

func (String) Kind() Kind           { return KindString }
func (Enum) Kind() Kind             { return KindEnum }
func (Int32) Kind() Kind            { return KindInt32 }
func (Int64) Kind() Kind            { return KindInt64 }
func (Float) Kind() Kind            { return KindFloat }
func (Double) Kind() Kind           { return KindDouble }
func (Boolean) Kind() Kind          { return KindBoolean }
func (Ref) Kind() Kind              { return KindRef }
func (Object) Kind() Kind           { return KindObject }
func (Any) Kind() Kind              { return KindAny }
func (List) Kind() Kind             { return KindList }
func (Set) Kind() Kind              { return KindSet }
func (Map) Kind() Kind              { return KindMap }
func (MultiDimensional) Kind() Kind { return KindMultiDimensional }
func (StructuralUnion) Kind() Kind  { return KindStructuralUnion }
func (PolymorphicUnion) Kind() Kind { return KindPolymorphicUnion }

func (String) sealed()           {}
func (Enum) sealed()             {}
func (Int32) sealed()            {}
func (Int64) sealed()            {}
func (Float) sealed()            {}
func (Double) sealed()           {}
func (Boolean) sealed()          {}
func (Ref) sealed()              {}
func (Object) sealed()           {}
func (Any) sealed()              {}
func (List) sealed()             {}
func (Set) sealed()              {}
func (Map) sealed()              {}
func (MultiDimensional) sealed() {}
func (StructuralUnion) sealed()  {}
func (PolymorphicUnion) sealed() {}

// Element returns the element classification of a precise container.
func Element(c Classification) (Classification, bool) {
	switch v := c.(type) {
	case List:
		return v.Elem, true
	case Set:
		return v.Elem, true
	case Map:
		return v.Value, true
	}
	return nil, false
}

func IsContainer(c Classification) bool {
	switch c.(type) {
	case List, Set, Map, MultiDimensional:
		return true
	}
	return false
}

// NeedsName reports whether a node of this shape can only be rendered
// through a named component.
func NeedsName(c Classification) bool {
	switch c.(type) {
	case Object, StructuralUnion, PolymorphicUnion:
		return true
	}
	return false
}

// EnumValues returns the enumeration of an enum, or of the element of a
// one-level container of an enum.
func EnumValues(c Classification) []any {
	if e, ok := c.(Enum); ok {
		return e.Values
	}
	if elem, ok := Element(c); ok {
		if e, ok := elem.(Enum); ok {
			return e.Values
		}
	}
	return nil
}

// Same reports whether two classifications describe the same shape. Enum
// values are not compared.
func Same(a, b Classification) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Ref:
		return av.Name == b.(Ref).Name
	case List:
		return Same(av.Elem, b.(List).Elem)
	case Set:
		return Same(av.Elem, b.(Set).Elem)
	case Map:
		return Same(av.Value, b.(Map).Value)
	case MultiDimensional:
		bv := b.(MultiDimensional)
		return av.Container == bv.Container && TypeExpr(av, nameOf) == TypeExpr(bv, nameOf)
	}
	return true
}

func nameOf(name string) string {
	return name
}
