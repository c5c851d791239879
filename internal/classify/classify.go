package classify

import (
	"strings"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
)

// Classify computes the shape of n. It depends only on n and the shapes of
// its children; path is used for error reporting.
func Classify(path string, n model.Node) (Classification, error) {
	switch v := n.(type) {
	case *model.Ref:
		return Ref{Name: v.Name}, nil
	case *model.Composition:
		if v.Kind == model.AllOf {
			return StructuralUnion{}, nil
		}
		return PolymorphicUnion{}, nil
	case *model.Scalar:
		return classifyScalar(path, v)
	case *model.Array:
		if v.Items == nil {
			return nil, errs.Classification(path, errs.ErrMissingItems, "array has no items schema")
		}
		elem, err := Classify(path+".items", v.Items)
		if err != nil {
			return nil, err
		}
		container := KindList
		if v.UniqueItems {
			container = KindSet
		}
		return wrap(container, elem, v.Items), nil
	case *model.Map:
		if v.Values == nil {
			return Map{Value: Any{}}, nil
		}
		elem, err := Classify(path+".additionalProperties", v.Values)
		if err != nil {
			return nil, err
		}
		return wrap(KindMap, elem, v.Values), nil
	case *model.Object:
		if len(v.Properties) > 0 {
			return Object{}, nil
		}
		return Any{}, nil
	case nil:
		return nil, errs.Classification(path, errs.ErrMalformedDocument, "missing schema")
	default:
		return nil, errs.Classification(path, errs.ErrUnsupportedType, "unsupported schema node %T", n)
	}
}

func classifyScalar(path string, s *model.Scalar) (Classification, error) {
	switch s.Type {
	case model.TypeString:
		if len(s.Enum) > 0 {
			return Enum{Values: s.Enum}, nil
		}
		return String{}, nil
	case model.TypeBoolean:
		if len(s.Enum) > 0 {
			return nil, errs.Classification(path, errs.ErrUnsupportedEnum, "enumeration is not supported on boolean")
		}
		return Boolean{}, nil
	case model.TypeNumber, model.TypeInteger:
		if len(s.Enum) > 0 {
			return nil, errs.Classification(path, errs.ErrUnsupportedEnum, "enumeration is not supported on %s", s.Type)
		}
		switch strings.ToLower(s.Format) {
		case "", "int32":
			return Int32{}, nil
		case "int64":
			return Int64{}, nil
		case "float":
			return Float{}, nil
		case "double":
			return Double{}, nil
		default:
			return nil, errs.Classification(path, errs.ErrUnsupportedFormat, "unsupported %s format %q", s.Type, s.Format)
		}
	default:
		return nil, errs.Classification(path, errs.ErrUnsupportedType, "unsupported type %q", s.Type)
	}
}

// wrap builds the container classification for an element. Two levels of
// nesting are kept precisely, anything deeper collapses to
// MultiDimensional.
func wrap(container Kind, elem Classification, elemNode model.Node) Classification {
	deep := false
	switch e := elem.(type) {
	case MultiDimensional:
		deep = true
	case List, Set, Map:
		inner, _ := Element(e)
		deep = IsContainer(inner)
	}

	if deep {
		return MultiDimensional{
			Container: container,
			Element:   elemNode,
			Inline:    innermostInline(elemNode),
		}
	}

	switch container {
	case KindSet:
		return Set{Elem: elem}
	case KindMap:
		return Map{Value: elem}
	default:
		return List{Elem: elem}
	}
}

func innermostInline(n model.Node) bool {
	for {
		switch v := n.(type) {
		case *model.Array:
			n = v.Items
		case *model.Map:
			if v.Values == nil {
				return false
			}
			n = v.Values
		case *model.Object:
			return len(v.Properties) > 0
		case *model.Composition:
			return true
		default:
			return false
		}
	}
}
