package model

// Node is one fragment of the schema graph. The set of implementations is
// closed: *Ref, *Scalar, *Array, *Map, *Object and *Composition.
type Node interface {
	isNode()
}

// Ref points at a named schema component and carries nothing else.
type Ref struct {
	Name string
}

type Scalar struct {
	Meta
	Type   ScalarType
	Format string
	Enum   []any
}

type Array struct {
	Meta
	// Items is nil when the document omitted it.
	Items       Node
	UniqueItems bool
}

// Map is an object with additional properties.
type Map struct {
	Meta
	// Values is nil for unconstrained additional properties.
	Values Node
}

type Object struct {
	Meta
	Properties    []Property
	Required      []string
	Discriminator *Discriminator
}

type Composition struct {
	Meta
	Kind          CompositionKind
	Members       []Node
	Discriminator *Discriminator
}

func (*Ref) isNode()         {}
func (*Scalar) isNode()      {}
func (*Array) isNode()       {}
func (*Map) isNode()         {}
func (*Object) isNode()      {}
func (*Composition) isNode() {}

// ScalarType is the type tag of a scalar. Unknown tags are carried as is.
type ScalarType string

const (
	TypeString  ScalarType = "string"
	TypeNumber  ScalarType = "number"
	TypeInteger ScalarType = "integer"
	TypeBoolean ScalarType = "boolean"
)

type CompositionKind string

const (
	AllOf CompositionKind = "allOf"
	AnyOf CompositionKind = "anyOf"
	OneOf CompositionKind = "oneOf"
)

// Meta holds the annotations and bounds shared by every non-reference node.
type Meta struct {
	Title       string
	Description string
	Nullable    bool
	Deprecated  bool
	ReadOnly    bool
	WriteOnly   bool
	Default     any
	Example     any
	Constraints Constraints
}

type Constraints struct {
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	MinLength        *int64
	MaxLength        *int64
	Pattern          string
	MinItems         *int64
	MaxItems         *int64
	MinProperties    *int64
	MaxProperties    *int64
}

type Property struct {
	Name   string
	Schema Node
}

type Discriminator struct {
	PropertyName string
	Mapping      []MappingEntry
}

// MappingEntry maps a discriminator value to a component reference as
// written in the document.
type MappingEntry struct {
	Value  string
	Target string
}

// MetaOf returns the annotations of n, or nil for a reference.
func MetaOf(n Node) *Meta {
	switch v := n.(type) {
	case *Scalar:
		return &v.Meta
	case *Array:
		return &v.Meta
	case *Map:
		return &v.Meta
	case *Object:
		return &v.Meta
	case *Composition:
		return &v.Meta
	default:
		return nil
	}
}

// RefName returns the referenced component name when n is a reference.
func RefName(n Node) (string, bool) {
	if r, ok := n.(*Ref); ok {
		return r.Name, true
	}
	return "", false
}

func (o *Object) Property(name string) (Node, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

func (o *Object) IsRequired(name string) bool {
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}
