package canon

import (
	"strconv"

	"github.com/kolah/canon/internal/classify"
	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

// hoistSiteSchemas moves an object or union schema held by a parameter,
// header, request body or response into the schema section.
func (cz *Canonicalizer) hoistSiteSchemas() (bool, error) {
	for _, s := range cz.siteSlots() {
		n := s.get()
		if n == nil {
			continue
		}
		if _, ok := n.(*model.Ref); ok {
			continue
		}
		c, err := classify.Classify(s.path, n)
		if err != nil {
			return false, err
		}
		if classify.NeedsName(c) {
			s.set(cz.hoist("site-schema", s.owner, n))
			return true, nil
		}
	}
	return false, nil
}

// hoistProperties replaces an inline object or union property of an
// object component with a reference to a new component.
func (cz *Canonicalizer) hoistProperties() (bool, error) {
	for _, name := range cz.c.Schemas.Names() {
		root := cz.componentSlot(name)
		obj, ok := root.get().(*model.Object)
		if !ok {
			continue
		}
		for i := range obj.Properties {
			s := propertySlot(root.owner, root.path, obj, i)
			n := s.get()
			if _, ok := n.(*model.Ref); ok {
				continue
			}
			c, err := classify.Classify(s.path, n)
			if err != nil {
				return false, err
			}
			if classify.NeedsName(c) {
				s.set(cz.hoist("object-property", naming.Join(s.owner, "Property"), n))
				return true, nil
			}
		}
	}
	return false, nil
}

// hoistContainerElements names the innermost element of an array or map,
// at any nesting depth, when it is an inline object or union.
func (cz *Canonicalizer) hoistContainerElements() (bool, error) {
	for _, s := range cz.slots() {
		elem, parent, depth := containerChain(s.get())
		if depth == 0 || !needsName(elem) {
			continue
		}
		replaceElement(parent, cz.hoist("container-element", naming.Join(s.owner, elementSuffix(parent)), elem))
		return true, nil
	}
	return false, nil
}

// hoistDeepEnums names an enumeration nested two or more containers deep
// so that it is rendered through a reference.
func (cz *Canonicalizer) hoistDeepEnums() (bool, error) {
	for _, s := range cz.slots() {
		elem, parent, depth := containerChain(s.get())
		if depth < 2 {
			continue
		}
		if sc, ok := elem.(*model.Scalar); ok && len(sc.Enum) > 0 {
			replaceElement(parent, cz.hoist("deep-enum", naming.Join(s.owner, "Enum"), elem))
			return true, nil
		}
	}
	return false, nil
}

// hoistBranches names every inline branch of a one-of/any-of component.
// Only objects and unions can become branches.
func (cz *Canonicalizer) hoistBranches() (bool, error) {
	for _, name := range cz.c.Schemas.Names() {
		n, _ := cz.c.Schemas.Get(name)
		comp, ok := n.(*model.Composition)
		if !ok || comp.Kind == model.AllOf {
			continue
		}
		for i, m := range comp.Members {
			if _, ok := m.(*model.Ref); ok {
				continue
			}
			at := "components.schemas." + name + "." + string(comp.Kind) + "[" + strconv.Itoa(i) + "]"
			if !needsName(m) {
				return false, errs.Normalization(at, errs.ErrInvalidBranch, "branch %d of %s is not an object", i, name)
			}
			comp.Members[i] = cz.hoist("polymorphic-branch", naming.Join(name, "Variant", strconv.Itoa(i)), m)
			return true, nil
		}
	}
	return false, nil
}

// needsName reports whether n is an inline object with properties or an
// inline composition.
func needsName(n model.Node) bool {
	switch v := n.(type) {
	case *model.Object:
		return len(v.Properties) > 0
	case *model.Composition:
		return true
	}
	return false
}
