package ingest

import (
	"fmt"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

// parseSchema converts one schema. A reference wins over every sibling
// keyword; all-of wins over any-of, which wins over one-of.
func parseSchema(at string, proxy *base.SchemaProxy) (model.Node, error) {
	if proxy == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "missing schema")
	}
	if ref := proxy.GetReference(); ref != "" {
		name, err := componentRef(at, ref, "schemas")
		if err != nil {
			return nil, err
		}
		return &model.Ref{Name: name}, nil
	}

	s, err := proxy.BuildSchema()
	if err != nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "building schema: %v", err)
	}
	if s == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "missing schema")
	}

	meta := parseMeta(s)

	for _, comp := range []struct {
		kind    model.CompositionKind
		members []*base.SchemaProxy
	}{
		{model.AllOf, s.AllOf},
		{model.AnyOf, s.AnyOf},
		{model.OneOf, s.OneOf},
	} {
		if len(comp.members) == 0 {
			continue
		}
		out := &model.Composition{
			Meta:          meta,
			Kind:          comp.kind,
			Discriminator: parseDiscriminator(s.Discriminator),
		}
		for i, m := range comp.members {
			member, err := parseSchema(fmt.Sprintf("%s.%s[%d]", at, comp.kind, i), m)
			if err != nil {
				return nil, err
			}
			out.Members = append(out.Members, member)
		}
		return out, nil
	}

	typ, nullable := schemaType(s.Type)
	if nullable {
		meta.Nullable = true
	}

	switch typ {
	case "array":
		arr := &model.Array{Meta: meta, UniqueItems: boolValue(s.UniqueItems)}
		if s.Items != nil {
			switch {
			case s.Items.IsA() && s.Items.A != nil:
				item, err := parseSchema(at+".items", s.Items.A)
				if err != nil {
					return nil, err
				}
				arr.Items = item
			case s.Items.IsB() && s.Items.B:
				arr.Items = &model.Object{}
			}
		}
		return arr, nil
	case "", "object":
		return parseObject(at, s, meta)
	default:
		out := &model.Scalar{
			Meta:   meta,
			Type:   model.ScalarType(typ),
			Format: s.Format,
		}
		for _, e := range s.Enum {
			out.Enum = append(out.Enum, value(e))
		}
		return out, nil
	}
}

func parseObject(at string, s *base.Schema, meta model.Meta) (model.Node, error) {
	if ap := s.AdditionalProperties; ap != nil {
		switch {
		case ap.IsB() && !ap.B:
		case ap.IsB() || ap.A == nil:
			return &model.Map{Meta: meta}, nil
		default:
			if empty, err := isEmptySchema(ap.A); err != nil {
				return nil, errs.Ingestion(at+".additionalProperties", errs.ErrMalformedDocument, "building schema: %v", err)
			} else if empty {
				return &model.Map{Meta: meta}, nil
			}
			values, err := parseSchema(at+".additionalProperties", ap.A)
			if err != nil {
				return nil, err
			}
			return &model.Map{Meta: meta, Values: values}, nil
		}
	}

	obj := &model.Object{
		Meta:          meta,
		Required:      s.Required,
		Discriminator: parseDiscriminator(s.Discriminator),
	}
	for name, prop := range s.Properties.FromOldest() {
		schema, err := parseSchema(at+".properties."+name, prop)
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, model.Property{Name: name, Schema: schema})
	}
	return obj, nil
}

// isEmptySchema reports whether proxy is the unconstrained schema {}.
func isEmptySchema(proxy *base.SchemaProxy) (bool, error) {
	if proxy.GetReference() != "" {
		return false, nil
	}
	s, err := proxy.BuildSchema()
	if err != nil || s == nil {
		return false, err
	}
	return len(s.Type) == 0 &&
		len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0 &&
		s.Items == nil && s.AdditionalProperties == nil &&
		orderedmap.Len(s.Properties) == 0 && len(s.Enum) == 0, nil
}

// schemaType returns the type tag of a schema. A type list yields its
// first non-null entry and marks the schema nullable.
func schemaType(types []string) (string, bool) {
	var typ string
	nullable := false
	for _, t := range types {
		if t == "null" {
			nullable = true
			continue
		}
		if typ == "" {
			typ = t
		}
	}
	return typ, nullable
}

func parseMeta(s *base.Schema) model.Meta {
	meta := model.Meta{
		Title:       s.Title,
		Description: s.Description,
		Nullable:    boolValue(s.Nullable),
		Deprecated:  boolValue(s.Deprecated),
		ReadOnly:    boolValue(s.ReadOnly),
		WriteOnly:   boolValue(s.WriteOnly),
		Default:     value(s.Default),
		Example:     value(s.Example),
		Constraints: model.Constraints{
			Minimum:       s.Minimum,
			Maximum:       s.Maximum,
			MultipleOf:    s.MultipleOf,
			MinLength:     s.MinLength,
			MaxLength:     s.MaxLength,
			Pattern:       s.Pattern,
			MinItems:      s.MinItems,
			MaxItems:      s.MaxItems,
			MinProperties: s.MinProperties,
			MaxProperties: s.MaxProperties,
		},
	}

	// 3.0 uses boolean exclusivity flags, 3.1 carries the bound itself
	exclusiveBound(s.ExclusiveMinimum, &meta.Constraints.Minimum, &meta.Constraints.ExclusiveMinimum)
	exclusiveBound(s.ExclusiveMaximum, &meta.Constraints.Maximum, &meta.Constraints.ExclusiveMaximum)

	return meta
}

func exclusiveBound(v *base.DynamicValue[bool, float64], bound **float64, exclusive *bool) {
	if v == nil {
		return
	}
	if v.IsA() {
		*exclusive = v.A
		return
	}
	f := v.B
	*bound = &f
	*exclusive = true
}

func parseDiscriminator(d *base.Discriminator) *model.Discriminator {
	if d == nil {
		return nil
	}
	disc := &model.Discriminator{PropertyName: d.PropertyName}
	for v, target := range d.Mapping.FromOldest() {
		disc.Mapping = append(disc.Mapping, model.MappingEntry{Value: v, Target: target})
	}
	return disc
}

// value decodes an arbitrary node into plain Go values.
func value(n *yaml.Node) any {
	if n == nil {
		return nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}
