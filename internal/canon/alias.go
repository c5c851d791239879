package canon

import (
	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
)

// collapseAliases replaces every component that is only a reference with
// a copy of its referent. Each round reads the table as it was when the
// round started, so a chain of n aliases needs n rounds.
func (cz *Canonicalizer) collapseAliases() (rounds, collapsed int, err error) {
	schemas := cz.c.Schemas

	for rounds < MaxAliasRounds {
		snapshot := make(map[string]model.Node, schemas.Len())
		var aliases []string
		for name, n := range schemas.All() {
			snapshot[name] = n
			if _, ok := n.(*model.Ref); ok {
				aliases = append(aliases, name)
			}
		}
		if len(aliases) == 0 {
			return rounds, collapsed, nil
		}

		rounds++
		for _, name := range aliases {
			target := snapshot[name].(*model.Ref).Name
			referent, ok := snapshot[target]
			if !ok {
				return rounds, collapsed, errs.Normalization("components.schemas."+name, errs.ErrUnresolvedReference,
					"alias %s points to unknown schema %s", name, target)
			}
			schemas.Set(name, model.Clone(referent))
			if _, stillAlias := referent.(*model.Ref); !stillAlias {
				collapsed++
			}
		}
	}

	for name, n := range schemas.All() {
		if ref, ok := n.(*model.Ref); ok {
			return rounds, collapsed, errs.Normalization("components.schemas."+name, errs.ErrCircularReference,
				"alias %s still points to %s after %d rounds", name, ref.Name, MaxAliasRounds)
		}
	}
	return rounds, collapsed, nil
}
