// Package ingest turns a decoded document into the component table the
// canonicalizer works on.
package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

type Ingestor struct {
	doc *model.Document
	log *slog.Logger
}

func New(doc *model.Document, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{doc: doc, log: log}
}

// Run fills missing component sections, assigns operation identifiers,
// hoists inline operation fragments into the component table and checks
// that every reference resolves.
func (in *Ingestor) Run() error {
	in.doc.EnsureComponents()
	in.mergePathParameters()
	in.assignOperationIDs()
	in.hoistRequestBodies()
	in.hoistResponses()
	in.hoistParameters()
	in.hoistHeaders()
	return in.resolveReferences()
}

// mergePathParameters copies path-level parameters into every operation
// of the path that does not override them by name and location.
func (in *Ingestor) mergePathParameters() {
	for _, path := range in.doc.Paths {
		if len(path.Parameters) == 0 {
			continue
		}
		for _, op := range path.Operations {
			declared := make(map[string]bool)
			for _, p := range op.Parameters {
				declared[in.parameterKey(p)] = true
			}
			var merged []*model.Parameter
			for _, p := range path.Parameters {
				if !declared[in.parameterKey(p)] {
					merged = append(merged, cloneParameter(p))
				}
			}
			op.Parameters = append(merged, op.Parameters...)
		}
	}
}

func cloneParameter(p *model.Parameter) *model.Parameter {
	cp := *p
	cp.Schema = model.Clone(p.Schema)
	cp.Content = nil
	for _, mt := range p.Content {
		cp.Content = append(cp.Content, model.MediaType{ContentType: mt.ContentType, Schema: model.Clone(mt.Schema)})
	}
	return &cp
}

func (in *Ingestor) parameterKey(p *model.Parameter) string {
	if p.Ref != "" {
		if target, ok := in.doc.Components.Parameters.Get(p.Ref); ok && target.Ref == "" {
			p = target
		} else {
			return "$ref:" + p.Ref
		}
	}
	return string(p.In) + ":" + p.Name
}

func (in *Ingestor) assignOperationIDs() {
	ids := naming.NewInterner()
	ops := in.doc.Operations()

	for _, op := range ops {
		if strings.TrimSpace(op.ID) == "" {
			continue
		}
		sanitized := naming.Sanitize(op.ID)
		if sanitized != op.ID {
			in.log.Warn("operation id is not a valid symbol", "operationId", op.ID, "renamed", sanitized)
		}
		op.ID = ids.Unique(sanitized)
		if op.ID != sanitized {
			in.log.Warn("duplicate operation id", "operationId", sanitized, "renamed", op.ID)
		}
	}

	for _, op := range ops {
		if strings.TrimSpace(op.ID) != "" {
			continue
		}
		op.ID = ids.Sequence("operation")
		in.log.Warn("operation has no id, the assigned id depends on document order",
			"path", op.Path, "method", op.Method, "operationId", op.ID)
	}
}

func (in *Ingestor) hoistRequestBodies() {
	bodies := in.doc.Components.RequestBodies
	for _, op := range in.doc.Operations() {
		if op.RequestBody == nil || op.RequestBody.Ref != "" {
			continue
		}
		name := bodies.Add(naming.Join("", op.ID, op.Method.Key(), "RequestBody"), op.RequestBody)
		op.RequestBody = &model.RequestBody{Ref: name}
	}
}

func (in *Ingestor) hoistResponses() {
	responses := in.doc.Components.Responses
	for _, op := range in.doc.Operations() {
		for i, sr := range op.Responses {
			if sr.Response.Ref != "" {
				continue
			}
			name := responses.Add(naming.Join("", op.ID, op.Method.Key(), "Http", sr.Status, "Response"), sr.Response)
			op.Responses[i].Response = &model.Response{Ref: name}
		}
	}
}

func (in *Ingestor) hoistParameters() {
	params := in.doc.Components.Parameters
	for _, op := range in.doc.Operations() {
		for i, p := range op.Parameters {
			if p.Ref != "" {
				continue
			}
			name := params.Add(naming.Join("", op.ID, op.Method.Key(), p.Name, "Parameter"), p)
			op.Parameters[i] = &model.Parameter{Ref: name}
		}
	}
}

// hoistHeaders moves the inline headers of every response component into
// the header section.
func (in *Ingestor) hoistHeaders() {
	headers := in.doc.Components.Headers
	for respName, resp := range in.doc.Components.Responses.All() {
		for i, h := range resp.Headers {
			if h.Header.Ref != "" {
				continue
			}
			name := headers.Add(naming.Join(respName, h.Name, "Header"), h.Header)
			resp.Headers[i].Header = &model.Header{Ref: name}
		}
	}
}

func (in *Ingestor) resolveReferences() error {
	c := in.doc.Components

	for _, path := range in.doc.Paths {
		for _, op := range path.Operations {
			at := "paths." + op.Path + "." + op.Method.Key()
			for i, p := range op.Parameters {
				if !c.Parameters.Has(p.Ref) {
					return unresolved(fmt.Sprintf("%s.parameters[%d]", at, i), "parameters", p.Ref)
				}
			}
			if op.RequestBody != nil && !c.RequestBodies.Has(op.RequestBody.Ref) {
				return unresolved(at+".requestBody", "requestBodies", op.RequestBody.Ref)
			}
			for _, sr := range op.Responses {
				if !c.Responses.Has(sr.Response.Ref) {
					return unresolved(at+".responses."+sr.Status, "responses", sr.Response.Ref)
				}
			}
		}
	}

	for name, s := range c.Schemas.All() {
		if err := in.checkSchema("components.schemas."+name, s); err != nil {
			return err
		}
	}
	for name, p := range c.Parameters.All() {
		at := "components.parameters." + name
		if p.Ref != "" {
			if !c.Parameters.Has(p.Ref) {
				return unresolved(at, "parameters", p.Ref)
			}
			continue
		}
		if err := in.checkSchema(at+".schema", p.Schema); err != nil {
			return err
		}
		if err := in.checkContent(at+".content", p.Content); err != nil {
			return err
		}
	}
	for name, rb := range c.RequestBodies.All() {
		at := "components.requestBodies." + name
		if rb.Ref != "" {
			if !c.RequestBodies.Has(rb.Ref) {
				return unresolved(at, "requestBodies", rb.Ref)
			}
			continue
		}
		if err := in.checkContent(at+".content", rb.Content); err != nil {
			return err
		}
	}
	for name, resp := range c.Responses.All() {
		at := "components.responses." + name
		if resp.Ref != "" {
			if !c.Responses.Has(resp.Ref) {
				return unresolved(at, "responses", resp.Ref)
			}
			continue
		}
		for _, h := range resp.Headers {
			if !c.Headers.Has(h.Header.Ref) {
				return unresolved(at+".headers."+h.Name, "headers", h.Header.Ref)
			}
		}
		if err := in.checkContent(at+".content", resp.Content); err != nil {
			return err
		}
	}
	for name, h := range c.Headers.All() {
		at := "components.headers." + name
		if h.Ref != "" {
			if !c.Headers.Has(h.Ref) {
				return unresolved(at, "headers", h.Ref)
			}
			continue
		}
		if err := in.checkSchema(at+".schema", h.Schema); err != nil {
			return err
		}
	}

	return nil
}

func (in *Ingestor) checkContent(at string, content []model.MediaType) error {
	for _, mt := range content {
		if err := in.checkSchema(at+"."+mt.ContentType+".schema", mt.Schema); err != nil {
			return err
		}
	}
	return nil
}

func (in *Ingestor) checkSchema(at string, n model.Node) error {
	if n == nil {
		return nil
	}
	for _, name := range model.Refs(n) {
		if !in.doc.Components.Schemas.Has(name) {
			return unresolved(at, "schemas", name)
		}
	}
	return nil
}

func unresolved(at, section, name string) error {
	return errs.Ingestion(at, errs.ErrUnresolvedReference, "reference to unknown component %s/%s", section, name)
}
