package canon

import (
	"strconv"
	"strings"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
)

// resolveUnions checks that every one-of/any-of branch references an
// object component and assigns each branch its discriminator value.
func (cz *Canonicalizer) resolveUnions() ([]Union, error) {
	var unions []Union

	for name, n := range cz.c.Schemas.All() {
		comp, ok := n.(*model.Composition)
		if !ok || comp.Kind == model.AllOf {
			continue
		}
		at := "components.schemas." + name

		targets := make([]*model.Object, len(comp.Members))
		branches := make([]string, len(comp.Members))
		for i, m := range comp.Members {
			branchAt := at + "." + string(comp.Kind) + "[" + strconv.Itoa(i) + "]"
			ref, isRef := m.(*model.Ref)
			if !isRef {
				return nil, errs.Normalization(branchAt, errs.ErrInvalidBranch, "branch %d of %s is not a reference", i, name)
			}
			target, _ := cz.c.Schemas.Get(ref.Name)
			obj, isObj := target.(*model.Object)
			if !isObj {
				return nil, errs.Normalization(branchAt, errs.ErrInvalidBranch, "branch %s of %s is not an object", ref.Name, name)
			}
			targets[i] = obj
			branches[i] = ref.Name
		}

		disc := comp.Discriminator
		if disc == nil {
			var owners []string
			for i, t := range targets {
				if t.Discriminator != nil {
					disc = t.Discriminator
					owners = append(owners, branches[i])
				}
			}
			if len(owners) > 1 {
				return nil, errs.Normalization(at, errs.ErrAmbiguousDiscriminator,
					"branches %s of %s all declare a discriminator", strings.Join(owners, ", "), name)
			}
		}

		u := Union{Name: name, Kind: comp.Kind}
		if disc != nil {
			u.Discriminator = disc.PropertyName
		}
		for _, b := range branches {
			u.Branches = append(u.Branches, Branch{Component: b, Value: discriminatorValue(disc, b)})
		}
		unions = append(unions, u)
	}

	return unions, nil
}

// discriminatorValue returns the mapping key whose target names the
// branch component, or the component name when the mapping has none.
func discriminatorValue(disc *model.Discriminator, branch string) string {
	if disc == nil {
		return branch
	}
	for _, m := range disc.Mapping {
		if m.Target == branch || strings.HasSuffix(m.Target, "/"+branch) {
			return m.Value
		}
	}
	return branch
}
