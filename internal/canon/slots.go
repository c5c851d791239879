package canon

import (
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

// slot is a replaceable position holding a schema. Hoisted children of
// the slot are named after owner.
type slot struct {
	owner string
	path  string
	get   func() model.Node
	set   func(model.Node)
}

func (cz *Canonicalizer) componentSlot(name string) slot {
	schemas := cz.c.Schemas
	return slot{
		owner: name,
		path:  "components.schemas." + name,
		get: func() model.Node {
			n, _ := schemas.Get(name)
			return n
		},
		set: func(n model.Node) { schemas.Set(name, n) },
	}
}

func propertySlot(owner, path string, obj *model.Object, i int) slot {
	name := obj.Properties[i].Name
	return slot{
		owner: naming.Join(owner, name),
		path:  path + ".properties." + name,
		get:   func() model.Node { return obj.Properties[i].Schema },
		set:   func(n model.Node) { obj.Properties[i].Schema = n },
	}
}

// siteSlots returns the schemas held by parameters, headers, request
// bodies and responses, named after the component holding them.
func (cz *Canonicalizer) siteSlots() []slot {
	var out []slot

	for name, p := range cz.c.Parameters.All() {
		if p.Ref != "" {
			continue
		}
		at := "components.parameters." + name
		out = append(out, slot{
			owner: naming.Join(name, "Schema"),
			path:  at + ".schema",
			get:   func() model.Node { return p.Schema },
			set:   func(n model.Node) { p.Schema = n },
		})
		out = append(out, contentSlots(naming.Join(name, "Schema"), at, p.Content)...)
	}
	for name, h := range cz.c.Headers.All() {
		if h.Ref != "" {
			continue
		}
		out = append(out, slot{
			owner: naming.Join(name, "Schema"),
			path:  "components.headers." + name + ".schema",
			get:   func() model.Node { return h.Schema },
			set:   func(n model.Node) { h.Schema = n },
		})
	}
	for name, rb := range cz.c.RequestBodies.All() {
		if rb.Ref != "" {
			continue
		}
		out = append(out, contentSlots(name, "components.requestBodies."+name, rb.Content)...)
	}
	for name, resp := range cz.c.Responses.All() {
		if resp.Ref != "" {
			continue
		}
		out = append(out, contentSlots(naming.Join(name, "Body"), "components.responses."+name, resp.Content)...)
	}

	return out
}

func contentSlots(owner, at string, content []model.MediaType) []slot {
	out := make([]slot, 0, len(content))
	for i := range content {
		out = append(out, slot{
			owner: owner,
			path:  at + ".content." + content[i].ContentType + ".schema",
			get:   func() model.Node { return content[i].Schema },
			set:   func(n model.Node) { content[i].Schema = n },
		})
	}
	return out
}

// slots returns every schema component, the properties of object
// components and every site schema, in table order.
func (cz *Canonicalizer) slots() []slot {
	var out []slot
	for _, name := range cz.c.Schemas.Names() {
		s := cz.componentSlot(name)
		out = append(out, s)
		if obj, ok := s.get().(*model.Object); ok {
			for i := range obj.Properties {
				out = append(out, propertySlot(s.owner, s.path, obj, i))
			}
		}
	}
	return append(out, cz.siteSlots()...)
}

// containerChain follows array items and map values from n. It returns the
// innermost element, the container directly holding it and the nesting
// depth. Depth is zero when n is not a container.
func containerChain(n model.Node) (elem model.Node, parent model.Node, depth int) {
	elem = n
	for {
		switch v := elem.(type) {
		case *model.Array:
			if v.Items == nil {
				return elem, parent, depth
			}
			parent, elem = v, v.Items
		case *model.Map:
			if v.Values == nil {
				return elem, parent, depth
			}
			parent, elem = v, v.Values
		default:
			return elem, parent, depth
		}
		depth++
	}
}

// replaceElement swaps the child of a container node.
func replaceElement(parent model.Node, n model.Node) {
	switch v := parent.(type) {
	case *model.Array:
		v.Items = n
	case *model.Map:
		v.Values = n
	}
}

func elementSuffix(parent model.Node) string {
	if _, ok := parent.(*model.Map); ok {
		return "Value"
	}
	return "Item"
}
