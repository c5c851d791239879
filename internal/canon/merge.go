package canon

import (
	"strconv"

	"github.com/kolah/canon/internal/classify"
	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

// mergeStructuralUnions rewrites one all-of component. Inline members are
// hoisted first; once every member references an object the members are
// merged into a single object replacing the composition. A union whose
// member is itself an unmerged all-of waits for it; when no union can make
// progress and one is waiting, the compositions form a cycle.
func (cz *Canonicalizer) mergeStructuralUnions() (bool, error) {
	var waiting string
	for _, name := range cz.c.Schemas.Names() {
		n, _ := cz.c.Schemas.Get(name)
		comp, ok := n.(*model.Composition)
		if !ok || comp.Kind != model.AllOf {
			continue
		}
		progressed, deferred, err := cz.mergeUnion(name, comp)
		if err != nil {
			return false, err
		}
		if progressed {
			return true, nil
		}
		if deferred && waiting == "" {
			waiting = name
		}
	}
	if waiting != "" {
		return false, errs.Normalization("components.schemas."+waiting, errs.ErrUnionOfUnion,
			"all-of composition %s cannot be merged, its members form a cycle of all-of compositions", waiting)
	}
	return false, nil
}

func (cz *Canonicalizer) mergeUnion(name string, comp *model.Composition) (progressed, deferred bool, err error) {
	at := "components.schemas." + name

	for i, m := range comp.Members {
		memberAt := at + ".allOf[" + strconv.Itoa(i) + "]"
		switch v := m.(type) {
		case *model.Ref:
			continue
		case *model.Object:
			comp.Members[i] = cz.hoist("structural-union", naming.Join(name, "Member", strconv.Itoa(i)), m)
			return true, false, nil
		case *model.Composition:
			if v.Kind != model.AllOf {
				return false, false, errs.Normalization(memberAt, errs.ErrInvalidMember, "member %d of %s is a %s composition", i, name, v.Kind)
			}
			comp.Members[i] = cz.hoist("structural-union", naming.Join(name, "Member", strconv.Itoa(i)), m)
			return true, false, nil
		default:
			return false, false, errs.Normalization(memberAt, errs.ErrInvalidMember, "member %d of %s is not an object", i, name)
		}
	}

	targets := make([]*model.Object, 0, len(comp.Members))
	for i, m := range comp.Members {
		memberAt := at + ".allOf[" + strconv.Itoa(i) + "]"
		target, targetName, err := cz.followAliases(memberAt, m.(*model.Ref).Name)
		if err != nil {
			return false, false, err
		}
		switch v := target.(type) {
		case *model.Object:
			targets = append(targets, v)
		case *model.Composition:
			if v.Kind == model.AllOf {
				return false, true, nil
			}
			return false, false, errs.Normalization(memberAt, errs.ErrInvalidMember, "member %s of %s is a %s composition", targetName, name, v.Kind)
		default:
			return false, false, errs.Normalization(memberAt, errs.ErrInvalidMember, "member %s of %s is not an object", targetName, name)
		}
	}

	merged, err := mergeObjects(at, comp, targets)
	if err != nil {
		return false, false, err
	}
	cz.c.Schemas.Set(name, merged)
	cz.log.Debug("merged all-of composition", "component", name, "members", len(targets))
	return true, false, nil
}

// mergeObjects unions the properties and required names of targets.
// Properties keep the position of their first appearance and the schema
// of their last one. Member discriminators are not inherited.
func mergeObjects(at string, comp *model.Composition, targets []*model.Object) (*model.Object, error) {
	out := &model.Object{
		Meta:          comp.Meta,
		Discriminator: comp.Discriminator.Clone(),
	}
	index := make(map[string]int)
	required := make(map[string]bool)

	for _, t := range targets {
		for _, p := range t.Properties {
			j, seen := index[p.Name]
			if !seen {
				index[p.Name] = len(out.Properties)
				out.Properties = append(out.Properties, model.Property{Name: p.Name, Schema: model.Clone(p.Schema)})
				continue
			}
			propAt := at + ".properties." + p.Name
			prev, err := classify.Classify(propAt, out.Properties[j].Schema)
			if err != nil {
				return nil, err
			}
			next, err := classify.Classify(propAt, p.Schema)
			if err != nil {
				return nil, err
			}
			if !classify.Same(prev, next) {
				return nil, errs.Normalization(propAt, errs.ErrMergeConflict,
					"property %s is declared as %s and as %s", p.Name, prev.Kind(), next.Kind())
			}
			out.Properties[j].Schema = model.Clone(p.Schema)
		}
		for _, r := range t.Required {
			if !required[r] {
				required[r] = true
				out.Required = append(out.Required, r)
			}
		}
	}

	return out, nil
}

// followAliases resolves name through components that are only a
// reference to another component.
func (cz *Canonicalizer) followAliases(at, name string) (model.Node, string, error) {
	for hops := 0; hops <= cz.c.Schemas.Len(); hops++ {
		n, ok := cz.c.Schemas.Get(name)
		if !ok {
			return nil, name, errs.Normalization(at, errs.ErrUnresolvedReference, "reference to unknown schema %s", name)
		}
		ref, isRef := n.(*model.Ref)
		if !isRef {
			return n, name, nil
		}
		name = ref.Name
	}
	return nil, name, errs.Normalization(at, errs.ErrCircularReference, "reference chain through %s never reaches a schema", name)
}
