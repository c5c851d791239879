package pipeline

import (
	"fmt"

	"github.com/kolah/canon/internal/canon"
	"github.com/kolah/canon/internal/classify"
	"github.com/kolah/canon/internal/compat"
	"github.com/kolah/canon/internal/model"
	"github.com/kolah/canon/internal/naming"
)

// Unit is everything the emitter needs to render one document.
type Unit struct {
	Role       string          `yaml:"role" json:"role"`
	Title      string          `yaml:"title,omitempty" json:"title,omitempty"`
	Version    string          `yaml:"version" json:"version"`
	Warnings   []string        `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Rewrites   int             `yaml:"rewrites" json:"rewrites"`
	Types      []Type          `yaml:"types" json:"types"`
	Unions     []Union         `yaml:"unions,omitempty" json:"unions,omitempty"`
	Operations []Operation     `yaml:"operations" json:"operations"`
	Document   *model.Document `yaml:"-" json:"-"`
	Scheme     naming.Scheme   `yaml:"-" json:"-"`
	Canon      *canon.Result   `yaml:"-" json:"-"`

	models map[string]string
}

// Type is one schema component with its classification.
type Type struct {
	Name   string  `yaml:"name" json:"name"`
	GoName string  `yaml:"goName" json:"goName"`
	Kind   string  `yaml:"kind" json:"kind"`
	Expr   string  `yaml:"expr" json:"expr"`
	GoType string  `yaml:"goType" json:"goType"`
	Enum   []any   `yaml:"enum,omitempty" json:"enum,omitempty"`
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

type Field struct {
	Name     string `yaml:"name" json:"name"`
	GoName   string `yaml:"goName" json:"goName"`
	Kind     string `yaml:"kind" json:"kind"`
	Expr     string `yaml:"expr" json:"expr"`
	GoType   string `yaml:"goType" json:"goType"`
	Required bool   `yaml:"required" json:"required"`
}

type Union struct {
	Name          string   `yaml:"name" json:"name"`
	GoName        string   `yaml:"goName" json:"goName"`
	Kind          string   `yaml:"kind" json:"kind"`
	Discriminator string   `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	Branches      []Branch `yaml:"branches" json:"branches"`
}

type Branch struct {
	Component string `yaml:"component" json:"component"`
	GoName    string `yaml:"goName" json:"goName"`
	Value     string `yaml:"value" json:"value"`
}

type Operation struct {
	ID        string   `yaml:"id" json:"id"`
	Method    string   `yaml:"method" json:"method"`
	Path      string   `yaml:"path" json:"path"`
	Tag       string   `yaml:"tag,omitempty" json:"tag,omitempty"`
	Interface string   `yaml:"interface" json:"interface"`
	Response  string   `yaml:"response" json:"response"`
	Requests  []string `yaml:"requests" json:"requests"`
	Extension bool     `yaml:"extension,omitempty" json:"extension,omitempty"`

	Parameters      []Value `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Bodies          []Value `yaml:"bodies,omitempty" json:"bodies,omitempty"`
	ResponseHeaders []Value `yaml:"responseHeaders,omitempty" json:"responseHeaders,omitempty"`
	ResponseBodies  []Value `yaml:"responseBodies,omitempty" json:"responseBodies,omitempty"`
}

// Value is the classified schema of one parameter, header or body of an
// operation. Component is the parameters, headers, requestBodies or
// responses entry holding it.
type Value struct {
	Component   string `yaml:"component,omitempty" json:"component,omitempty"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	In          string `yaml:"in,omitempty" json:"in,omitempty"`
	Status      string `yaml:"status,omitempty" json:"status,omitempty"`
	ContentType string `yaml:"contentType,omitempty" json:"contentType,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Kind        string `yaml:"kind" json:"kind"`
	Expr        string `yaml:"expr" json:"expr"`
	GoType      string `yaml:"goType" json:"goType"`
}

// ModelName returns the generated name of a schema component.
func (u *Unit) ModelName(component string) string {
	if name, ok := u.models[component]; ok {
		return name
	}
	return component
}

func (u *Unit) build(namer *naming.Namer) error {
	schemas := u.Document.Components.Schemas
	u.models = u.Scheme.Models(schemas.Names())
	u.Rewrites = u.Canon.Rewrites

	for name, n := range schemas.All() {
		t, err := u.buildType(namer, name, n)
		if err != nil {
			return err
		}
		u.Types = append(u.Types, t)
	}

	for _, cu := range u.Canon.Unions {
		un := Union{
			Name:          cu.Name,
			GoName:        u.ModelName(cu.Name),
			Kind:          string(cu.Kind),
			Discriminator: cu.Discriminator,
		}
		for _, b := range cu.Branches {
			un.Branches = append(un.Branches, Branch{Component: b.Component, GoName: u.ModelName(b.Component), Value: b.Value})
		}
		u.Unions = append(u.Unions, un)
	}

	for _, op := range u.Document.Operations() {
		o, err := u.buildOperation(op)
		if err != nil {
			return err
		}
		u.Operations = append(u.Operations, o)
	}
	return nil
}

func (u *Unit) buildType(namer *naming.Namer, name string, n model.Node) (Type, error) {
	at := "components.schemas." + name
	c, err := classify.Classify(at, n)
	if err != nil {
		return Type{}, err
	}

	t := Type{
		Name:   name,
		GoName: u.ModelName(name),
		Kind:   c.Kind().String(),
		Expr:   classify.TypeExpr(c, u.ModelName),
		GoType: classify.GoType(c, u.ModelName),
		Enum:   classify.EnumValues(c),
	}
	if t.Expr == "" {
		t.Expr = t.GoName
	}
	if classify.NeedsName(c) {
		t.GoType = t.GoName
	}

	obj, ok := n.(*model.Object)
	if !ok {
		return t, nil
	}
	for _, p := range obj.Properties {
		pc, err := classify.Classify(at+".properties."+p.Name, p.Schema)
		if err != nil {
			return Type{}, err
		}
		t.Fields = append(t.Fields, Field{
			Name:     p.Name,
			GoName:   namer.FieldName(p.Name),
			Kind:     pc.Kind().String(),
			Expr:     classify.TypeExpr(pc, u.ModelName),
			GoType:   classify.GoType(pc, u.ModelName),
			Required: obj.IsRequired(p.Name),
		})
	}
	return t, nil
}

func (u *Unit) buildOperation(op *model.Operation) (Operation, error) {
	out := Operation{
		ID:       op.ID,
		Method:   string(op.Method),
		Path:     op.Path,
		Response: u.Scheme.Response(op.ID),
	}

	tag := "default"
	if len(op.Tags) > 0 {
		tag = op.Tags[0]
		out.Tag = u.Scheme.Tag(tag)
	}
	out.Interface = u.Scheme.Interface(tag)

	c := u.Document.Components
	at := "paths." + op.Path + "." + op.Method.Key()

	for i, ref := range op.Parameters {
		p, ok := model.Follow(c.Parameters, ref)
		if !ok {
			continue
		}
		schema := p.Schema
		if schema == nil && len(p.Content) > 0 {
			schema = p.Content[0].Schema
		}
		v, err := u.value(sitePath("parameters", ref.Ref, fmt.Sprintf("%s.parameters[%d]", at, i))+".schema", schema)
		if err != nil {
			return Operation{}, err
		}
		v.Component = ref.Ref
		v.Name = p.Name
		v.In = string(p.In)
		v.Required = p.Required
		out.Parameters = append(out.Parameters, v)
	}

	var content []model.MediaType
	if op.RequestBody != nil {
		if rb, ok := model.Follow(c.RequestBodies, op.RequestBody); ok {
			content = rb.Content
			bodyAt := sitePath("requestBodies", op.RequestBody.Ref, at+".requestBody")
			for _, mt := range rb.Content {
				v, err := u.value(bodyAt+".content."+mt.ContentType+".schema", mt.Schema)
				if err != nil {
					return Operation{}, err
				}
				v.Component = op.RequestBody.Ref
				v.ContentType = mt.ContentType
				v.Required = rb.Required
				out.Bodies = append(out.Bodies, v)
			}
		}
	}

	for _, sr := range op.Responses {
		resp, ok := model.Follow(c.Responses, sr.Response)
		if !ok {
			continue
		}
		respAt := sitePath("responses", sr.Response.Ref, at+".responses."+sr.Status)
		for _, h := range resp.Headers {
			header, ok := model.Follow(c.Headers, h.Header)
			if !ok {
				continue
			}
			v, err := u.value(sitePath("headers", h.Header.Ref, respAt+".headers."+h.Name)+".schema", header.Schema)
			if err != nil {
				return Operation{}, err
			}
			v.Component = h.Header.Ref
			v.Name = h.Name
			v.Status = sr.Status
			v.Required = header.Required
			out.ResponseHeaders = append(out.ResponseHeaders, v)
		}
		for _, mt := range resp.Content {
			v, err := u.value(respAt+".content."+mt.ContentType+".schema", mt.Schema)
			if err != nil {
				return Operation{}, err
			}
			v.Component = sr.Response.Ref
			v.Status = sr.Status
			v.ContentType = mt.ContentType
			out.ResponseBodies = append(out.ResponseBodies, v)
		}
	}

	if len(content) == 0 {
		out.Requests = []string{u.Scheme.Request(op.ID, "")}
		return out, nil
	}
	for _, mt := range content {
		out.Requests = append(out.Requests, u.Scheme.Request(op.ID, mt.ContentType))
	}
	return out, nil
}

// value classifies the schema of a site. A site without a schema accepts
// any value.
func (u *Unit) value(at string, n model.Node) (Value, error) {
	var c classify.Classification = classify.Any{}
	if n != nil {
		var err error
		if c, err = classify.Classify(at, n); err != nil {
			return Value{}, err
		}
	}
	return Value{
		Kind:   c.Kind().String(),
		Expr:   classify.TypeExpr(c, u.ModelName),
		GoType: classify.GoType(c, u.ModelName),
	}, nil
}

// sitePath locates a site entry at its component when it refers to one.
func sitePath(section, ref, inline string) string {
	if ref != "" {
		return "components." + section + "." + ref
	}
	return inline
}

// markExtensionOperations suffixes the generated names of every operation
// the differ found only in the extension.
func (u *Unit) markExtensionOperations(diff *compat.Result) {
	for i := range u.Operations {
		op := &u.Operations[i]
		if !diff.IsExtensionOperation(op.ID) {
			continue
		}
		op.Extension = true
		op.Response = u.Scheme.Extension(op.Response)
		for j, r := range op.Requests {
			op.Requests[j] = u.Scheme.Extension(r)
		}
	}
}
