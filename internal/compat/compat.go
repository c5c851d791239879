// Package compat decides which artifacts of an extension document can reuse
// the artifacts generated for its base document.
package compat

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

// Result maps generated extension names to the base names they reuse.
type Result struct {
	Components map[string]string
	Responses  map[string]string
	Requests   map[string]string

	// ExtensionOperations lists the ids of operations that exist only in the
	// extension, or whose request or response differs from the base.
	ExtensionOperations []string

	Compatible   []string
	Incompatible []string
}

// IsExtensionOperation reports whether id was recorded as extension-only.
func (r *Result) IsExtensionOperation(id string) bool {
	return slices.Contains(r.ExtensionOperations, id)
}

type state int

const (
	unknown state = iota
	inProgress
	compatible
	incompatible
)

type differ struct {
	base, ext   *model.Document
	baseC, extC *model.Components
	state       map[string]state
	extOps    []string
	log       *slog.Logger
}

// Diff compares two canonical documents. Components are resolved first,
// then responses, then requests, since the latter two depend on component
// compatibility. Diff never fails; anything it cannot prove equal is
// reported as incompatible.
func Diff(base, ext *model.Document, baseNames, extNames naming.Scheme, log *slog.Logger) *Result {
	if log == nil {
		log = slog.Default()
	}
	d := &differ{
		base:  base,
		ext:   ext,
		baseC: componentsOf(base),
		extC:  componentsOf(ext),
		state: make(map[string]state),
		log:   log,
	}
	res := &Result{
		Components: make(map[string]string),
		Responses:  make(map[string]string),
		Requests:   make(map[string]string),
	}

	extModels := extNames.Models(d.extC.Schemas.Names())
	baseModels := baseNames.Models(d.baseC.Schemas.Names())
	for _, name := range d.extC.Schemas.Names() {
		if d.component(name) {
			res.Compatible = append(res.Compatible, name)
			res.Components[extModels[name]] = baseModels[name]
		} else {
			res.Incompatible = append(res.Incompatible, name)
		}
	}
	log.Info("compared components", "compatible", len(res.Compatible), "incompatible", len(res.Incompatible))

	var incompatibleResponses int
	for _, op := range ext.Operations() {
		if d.response(op) {
			res.Responses[extNames.Response(op.ID)] = baseNames.Response(op.ID)
		} else {
			d.extensionOnly(op.ID)
			incompatibleResponses++
		}
	}
	log.Info("compared responses", "compatible", len(res.Responses), "incompatible", incompatibleResponses)

	var compatibleRequests, incompatibleRequests int
	for _, op := range ext.Operations() {
		contentTypes, ok := d.request(op)
		if !ok {
			d.extensionOnly(op.ID)
			incompatibleRequests++
			continue
		}
		compatibleRequests++
		if len(contentTypes) == 0 {
			res.Requests[extNames.Request(op.ID, "")] = baseNames.Request(op.ID, "")
			continue
		}
		for _, ct := range contentTypes {
			res.Requests[extNames.Request(op.ID, ct)] = baseNames.Request(op.ID, ct)
		}
	}
	log.Info("compared requests", "compatible", compatibleRequests, "incompatible", incompatibleRequests)

	res.ExtensionOperations = d.extOps
	return res
}

func (d *differ) extensionOnly(id string) {
	if !slices.Contains(d.extOps, id) {
		d.extOps = append(d.extOps, id)
	}
}

// component resolves the compatibility of one schema component. A
// component still being resolved further up the stack is judged by its own
// pair alone.
func (d *differ) component(name string) bool {
	switch d.state[name] {
	case compatible:
		return true
	case incompatible:
		return false
	case inProgress:
		return d.samePair(name)
	}

	d.state[name] = inProgress
	ok := d.samePair(name)
	if ok {
		n, _ := d.extC.Schemas.Get(name)
		for _, dep := range model.Refs(n) {
			if dep != name && !d.component(dep) {
				ok = false
				break
			}
		}
	}

	if ok {
		d.state[name] = compatible
	} else {
		d.state[name] = incompatible
	}
	return ok
}

func (d *differ) samePair(name string) bool {
	b, inBase := d.baseC.Schemas.Get(name)
	e, inExt := d.extC.Schemas.Get(name)
	return inBase && inExt && reflect.DeepEqual(b, e)
}

// touches reports whether every component reachable from n is compatible.
func (d *differ) touches(n model.Node) bool {
	for _, name := range DependsOn(d.extC, n) {
		if !d.component(name) {
			return false
		}
	}
	return true
}

func (d *differ) baseOperation(op *model.Operation) (*model.Operation, bool) {
	b, ok := d.base.Operation(op.Path, op.Method)
	if !ok || b.ID != op.ID {
		return nil, false
	}
	return b, true
}

func (d *differ) response(op *model.Operation) bool {
	b, ok := d.baseOperation(op)
	if !ok || !reflect.DeepEqual(b.Responses, op.Responses) {
		return false
	}

	for _, sr := range op.Responses {
		ext, ok := model.Follow(d.extC.Responses, sr.Response)
		if !ok {
			return false
		}
		base, ok := model.Follow(d.baseC.Responses, sr.Response)
		if !ok || !reflect.DeepEqual(ext, base) {
			return false
		}

		for _, h := range ext.Headers {
			extHeader, ok := model.Follow(d.extC.Headers, h.Header)
			if !ok {
				return false
			}
			baseHeader, ok := model.Follow(d.baseC.Headers, h.Header)
			if !ok || !reflect.DeepEqual(extHeader, baseHeader) || !d.touches(extHeader.Schema) {
				return false
			}
		}
		for _, mt := range ext.Content {
			if !d.touches(mt.Schema) {
				return false
			}
		}
	}
	return true
}

// request returns the content types of a compatible request body, or
// false when the request differs from the base.
func (d *differ) request(op *model.Operation) ([]string, bool) {
	b, ok := d.baseOperation(op)
	if !ok || !reflect.DeepEqual(b.Parameters, op.Parameters) {
		return nil, false
	}

	for _, p := range op.Parameters {
		ext, ok := model.Follow(d.extC.Parameters, p)
		if !ok {
			return nil, false
		}
		base, ok := model.Follow(d.baseC.Parameters, p)
		if !ok || !reflect.DeepEqual(ext, base) || !d.touches(ext.Schema) {
			return nil, false
		}
		for _, mt := range ext.Content {
			if !d.touches(mt.Schema) {
				return nil, false
			}
		}
	}

	if !reflect.DeepEqual(b.RequestBody, op.RequestBody) {
		return nil, false
	}
	if op.RequestBody == nil {
		return nil, true
	}

	ext, ok := model.Follow(d.extC.RequestBodies, op.RequestBody)
	if !ok {
		return nil, false
	}
	base, ok := model.Follow(d.baseC.RequestBodies, op.RequestBody)
	if !ok || !reflect.DeepEqual(ext, base) {
		return nil, false
	}

	var contentTypes []string
	for _, mt := range ext.Content {
		if !d.touches(mt.Schema) {
			return nil, false
		}
		contentTypes = append(contentTypes, mt.ContentType)
	}
	return contentTypes, true
}

func componentsOf(doc *model.Document) *model.Components {
	if doc.Components == nil {
		return model.NewComponents()
	}
	return doc.Components
}

// DependsOn returns the sorted names of every schema component reachable
// from n through references, properties, array items, map values and
// composition members.
func DependsOn(c *model.Components, n model.Node) []string {
	seen := make(map[string]bool)
	var visit func(model.Node)
	visit = func(n model.Node) {
		for _, name := range model.Refs(n) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if target, ok := c.Schemas.Get(name); ok {
				visit(target)
			}
		}
	}
	visit(n)
	return slices.Sorted(maps.Keys(seen))
}
