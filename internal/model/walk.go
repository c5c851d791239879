package model

import "slices"

// Clone returns a deep copy of n. Default and example values are shared.
func Clone(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *Ref:
		return &Ref{Name: v.Name}
	case *Scalar:
		c := *v
		c.Meta = cloneMeta(v.Meta)
		c.Enum = slices.Clone(v.Enum)
		return &c
	case *Array:
		c := *v
		c.Meta = cloneMeta(v.Meta)
		c.Items = Clone(v.Items)
		return &c
	case *Map:
		c := *v
		c.Meta = cloneMeta(v.Meta)
		c.Values = Clone(v.Values)
		return &c
	case *Object:
		c := *v
		c.Meta = cloneMeta(v.Meta)
		c.Properties = nil
		for _, p := range v.Properties {
			c.Properties = append(c.Properties, Property{Name: p.Name, Schema: Clone(p.Schema)})
		}
		c.Required = slices.Clone(v.Required)
		c.Discriminator = v.Discriminator.Clone()
		return &c
	case *Composition:
		c := *v
		c.Meta = cloneMeta(v.Meta)
		c.Members = nil
		for _, m := range v.Members {
			c.Members = append(c.Members, Clone(m))
		}
		c.Discriminator = v.Discriminator.Clone()
		return &c
	default:
		panic("model: unknown node type")
	}
}

func cloneMeta(m Meta) Meta {
	c := m
	c.Constraints.Minimum = clonePtr(m.Constraints.Minimum)
	c.Constraints.Maximum = clonePtr(m.Constraints.Maximum)
	c.Constraints.MultipleOf = clonePtr(m.Constraints.MultipleOf)
	c.Constraints.MinLength = clonePtr(m.Constraints.MinLength)
	c.Constraints.MaxLength = clonePtr(m.Constraints.MaxLength)
	c.Constraints.MinItems = clonePtr(m.Constraints.MinItems)
	c.Constraints.MaxItems = clonePtr(m.Constraints.MaxItems)
	c.Constraints.MinProperties = clonePtr(m.Constraints.MinProperties)
	c.Constraints.MaxProperties = clonePtr(m.Constraints.MaxProperties)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (d *Discriminator) Clone() *Discriminator {
	if d == nil {
		return nil
	}
	return &Discriminator{
		PropertyName: d.PropertyName,
		Mapping:      slices.Clone(d.Mapping),
	}
}

// Children returns the direct child nodes of n in document order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Array:
		if v.Items != nil {
			return []Node{v.Items}
		}
	case *Map:
		if v.Values != nil {
			return []Node{v.Values}
		}
	case *Object:
		out := make([]Node, 0, len(v.Properties))
		for _, p := range v.Properties {
			out = append(out, p.Schema)
		}
		return out
	case *Composition:
		return slices.Clone(v.Members)
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// stops the descent below the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Refs returns the component names referenced anywhere inside n, in
// first-seen order.
func Refs(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(n, func(c Node) bool {
		if name, ok := RefName(c); ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		return true
	})
	return out
}
