// Package canon rewrites a component table until every shape that cannot
// be rendered as a single field is a named, reference-only component.
package canon

import (
	"log/slog"

	"github.com/kolah/canon/internal/classify"
	"github.com/kolah/canon/internal/model"
)

// MaxAliasRounds bounds alias collapsing. Chains longer than this are
// reported as circular references.
const MaxAliasRounds = 255

type Result struct {
	// Rewrites counts every hoist, merge and alias replacement.
	Rewrites    int
	Rounds      int
	AliasRounds int
	Unions      []Union
}

// Union describes a resolved one-of/any-of component.
type Union struct {
	Name          string
	Kind          model.CompositionKind
	Discriminator string
	Branches      []Branch
}

type Branch struct {
	Component string
	// Value is the discriminator value selecting this branch.
	Value string
}

type Canonicalizer struct {
	c   *model.Components
	log *slog.Logger
}

func New(c *model.Components, log *slog.Logger) *Canonicalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Canonicalizer{c: c, log: log}
}

// pass performs at most one rewrite and reports whether it did.
type pass struct {
	name  string
	apply func() (bool, error)
}

func (cz *Canonicalizer) passes() []pass {
	return []pass{
		{"site-schema", cz.hoistSiteSchemas},
		{"object-property", cz.hoistProperties},
		{"container-element", cz.hoistContainerElements},
		{"polymorphic-branch", cz.hoistBranches},
		{"structural-union", cz.mergeStructuralUnions},
		{"deep-enum", cz.hoistDeepEnums},
	}
}

// Run drives the rewrite passes to a fixed point. Passes are tried in
// order and every rewrite restarts the round from the first pass; a round
// without any rewrite ends the loop. Aliases are collapsed afterwards and
// polymorphic unions resolved last.
func (cz *Canonicalizer) Run() (*Result, error) {
	res := &Result{}
	passes := cz.passes()

	for {
		res.Rounds++
		progressed := false
		for _, p := range passes {
			ok, err := p.apply()
			if err != nil {
				return nil, err
			}
			if ok {
				res.Rewrites++
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	rounds, collapsed, err := cz.collapseAliases()
	if err != nil {
		return nil, err
	}
	res.AliasRounds = rounds
	res.Rewrites += collapsed

	unions, err := cz.resolveUnions()
	if err != nil {
		return nil, err
	}
	res.Unions = unions

	if err := cz.verify(); err != nil {
		return nil, err
	}

	cz.log.Debug("canonicalized component table",
		"schemas", cz.c.Schemas.Len(), "rewrites", res.Rewrites, "rounds", res.Rounds, "aliasRounds", res.AliasRounds)

	return res, nil
}

// hoist registers n as a new schema component derived from base and
// returns the reference that replaces it.
func (cz *Canonicalizer) hoist(pass, base string, n model.Node) *model.Ref {
	name := cz.c.Schemas.Add(base, n)
	cz.log.Debug("hoisted schema", "pass", pass, "component", name)
	return &model.Ref{Name: name}
}

// verify classifies every slot so that a shape outside the taxonomy fails
// the run.
func (cz *Canonicalizer) verify() error {
	for _, s := range cz.slots() {
		n := s.get()
		if n == nil {
			continue
		}
		if _, err := classify.Classify(s.path, n); err != nil {
			return err
		}
	}
	return nil
}
