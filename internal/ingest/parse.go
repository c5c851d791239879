package ingest

import (
	"fmt"
	"strings"

	"github.com/kolah/canon/internal/errs"
	"github.com/kolah/canon/internal/model"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
)

// Parse converts a libopenapi document model into the document model. Order
// of paths, properties and responses follows the document. References are
// kept as component names, never inlined.
func Parse(src *v3.Document) (*model.Document, error) {
	if src == nil {
		return nil, errs.Ingestion("", errs.ErrMalformedDocument, "no document model")
	}

	doc := &model.Document{Version: src.Version}
	if src.Info != nil {
		doc.Info = model.Info{
			Title:       src.Info.Title,
			Description: src.Info.Description,
			Version:     src.Info.Version,
		}
	}

	if src.Components != nil {
		c, err := parseComponents(src.Components)
		if err != nil {
			return nil, err
		}
		doc.Components = c
	}

	if src.Paths != nil {
		for pathStr, item := range src.Paths.PathItems.FromOldest() {
			path, err := parsePath(pathStr, item)
			if err != nil {
				return nil, err
			}
			doc.Paths = append(doc.Paths, path)
		}
	}

	return doc, nil
}

func parseComponents(src *v3.Components) (*model.Components, error) {
	c := model.NewComponents()

	for name, proxy := range src.Schemas.FromOldest() {
		schema, err := parseSchema("components.schemas."+name, proxy)
		if err != nil {
			return nil, err
		}
		c.Schemas.Set(name, schema)
	}
	for name, r := range src.Responses.FromOldest() {
		resp, err := parseResponse("components.responses."+name, r)
		if err != nil {
			return nil, err
		}
		c.Responses.Set(name, resp)
	}
	for name, rb := range src.RequestBodies.FromOldest() {
		body, err := parseRequestBody("components.requestBodies."+name, rb)
		if err != nil {
			return nil, err
		}
		c.RequestBodies.Set(name, body)
	}
	for name, p := range src.Parameters.FromOldest() {
		param, err := parseParameter("components.parameters."+name, p)
		if err != nil {
			return nil, err
		}
		c.Parameters.Set(name, param)
	}
	for name, h := range src.Headers.FromOldest() {
		header, err := parseHeader("components.headers."+name, h)
		if err != nil {
			return nil, err
		}
		c.Headers.Set(name, header)
	}

	return c, nil
}

func parsePath(pathStr string, item *v3.PathItem) (*model.Path, error) {
	at := "paths." + pathStr
	if item == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "path item is empty")
	}

	path := &model.Path{Path: pathStr}

	for i, p := range item.Parameters {
		param, err := parseParameter(fmt.Sprintf("%s.parameters[%d]", at, i), p)
		if err != nil {
			return nil, err
		}
		path.Parameters = append(path.Parameters, param)
	}

	for _, method := range model.Methods {
		src := pathOperation(item, method)
		if src == nil {
			continue
		}
		op, err := parseOperation(at+"."+method.Key(), pathStr, method, src)
		if err != nil {
			return nil, err
		}
		path.Operations = append(path.Operations, op)
	}

	return path, nil
}

func pathOperation(item *v3.PathItem, method model.Method) *v3.Operation {
	switch method {
	case model.MethodGet:
		return item.Get
	case model.MethodPut:
		return item.Put
	case model.MethodPost:
		return item.Post
	case model.MethodDelete:
		return item.Delete
	case model.MethodOptions:
		return item.Options
	case model.MethodHead:
		return item.Head
	case model.MethodPatch:
		return item.Patch
	case model.MethodTrace:
		return item.Trace
	}
	return nil
}

func parseOperation(at, path string, method model.Method, src *v3.Operation) (*model.Operation, error) {
	op := &model.Operation{
		ID:          src.OperationId,
		Method:      method,
		Path:        path,
		Summary:     src.Summary,
		Description: src.Description,
		Tags:        src.Tags,
		Deprecated:  boolValue(src.Deprecated),
	}

	for i, p := range src.Parameters {
		param, err := parseParameter(fmt.Sprintf("%s.parameters[%d]", at, i), p)
		if err != nil {
			return nil, err
		}
		op.Parameters = append(op.Parameters, param)
	}

	if src.RequestBody != nil {
		rb, err := parseRequestBody(at+".requestBody", src.RequestBody)
		if err != nil {
			return nil, err
		}
		op.RequestBody = rb
	}

	if src.Responses != nil {
		for status, r := range src.Responses.Codes.FromOldest() {
			resp, err := parseResponse(at+".responses."+status, r)
			if err != nil {
				return nil, err
			}
			op.Responses = append(op.Responses, model.StatusResponse{Status: status, Response: resp})
		}
		if src.Responses.Default != nil {
			resp, err := parseResponse(at+".responses.default", src.Responses.Default)
			if err != nil {
				return nil, err
			}
			op.Responses = append(op.Responses, model.StatusResponse{Status: "default", Response: resp})
		}
	}

	return op, nil
}

func parseParameter(at string, p *v3.Parameter) (*model.Parameter, error) {
	if p == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "parameter is empty")
	}
	if ref := refOf(p.Reference, p.GoLow()); ref != "" {
		name, err := componentRef(at, ref, "parameters")
		if err != nil {
			return nil, err
		}
		return &model.Parameter{Ref: name}, nil
	}

	param := &model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    boolValue(p.Required),
		Deprecated:  p.Deprecated,
		Style:       p.Style,
		Explode:     p.Explode,
	}
	if param.Name == "" {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "parameter has no name")
	}

	if p.Schema != nil {
		schema, err := parseSchema(at+".schema", p.Schema)
		if err != nil {
			return nil, err
		}
		param.Schema = schema
	}

	content, err := parseContent(at+".content", p.Content)
	if err != nil {
		return nil, err
	}
	param.Content = content

	return param, nil
}

func parseRequestBody(at string, rb *v3.RequestBody) (*model.RequestBody, error) {
	if rb == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "request body is empty")
	}
	if ref := refOf(rb.Reference, rb.GoLow()); ref != "" {
		name, err := componentRef(at, ref, "requestBodies")
		if err != nil {
			return nil, err
		}
		return &model.RequestBody{Ref: name}, nil
	}

	content, err := parseContent(at+".content", rb.Content)
	if err != nil {
		return nil, err
	}

	return &model.RequestBody{
		Description: rb.Description,
		Required:    boolValue(rb.Required),
		Content:     content,
	}, nil
}

func parseResponse(at string, r *v3.Response) (*model.Response, error) {
	if r == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "response is empty")
	}
	if ref := refOf(r.Reference, r.GoLow()); ref != "" {
		name, err := componentRef(at, ref, "responses")
		if err != nil {
			return nil, err
		}
		return &model.Response{Ref: name}, nil
	}

	resp := &model.Response{Description: r.Description}

	for name, h := range r.Headers.FromOldest() {
		header, err := parseHeader(at+".headers."+name, h)
		if err != nil {
			return nil, err
		}
		resp.Headers = append(resp.Headers, model.NamedHeader{Name: name, Header: header})
	}

	content, err := parseContent(at+".content", r.Content)
	if err != nil {
		return nil, err
	}
	resp.Content = content

	return resp, nil
}

func parseHeader(at string, h *v3.Header) (*model.Header, error) {
	if h == nil {
		return nil, errs.Ingestion(at, errs.ErrMalformedDocument, "header is empty")
	}
	if ref := refOf(h.Reference, h.GoLow()); ref != "" {
		name, err := componentRef(at, ref, "headers")
		if err != nil {
			return nil, err
		}
		return &model.Header{Ref: name}, nil
	}

	header := &model.Header{
		Description: h.Description,
		Required:    h.Required,
		Deprecated:  h.Deprecated,
	}

	if h.Schema != nil {
		schema, err := parseSchema(at+".schema", h.Schema)
		if err != nil {
			return nil, err
		}
		header.Schema = schema
		return header, nil
	}

	// a header described through content uses the schema of its first
	// media type
	content, err := parseContent(at+".content", h.Content)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		header.Schema = content[0].Schema
	}

	return header, nil
}

func parseContent(at string, src *orderedmap.Map[string, *v3.MediaType]) ([]model.MediaType, error) {
	var out []model.MediaType
	for contentType, mt := range src.FromOldest() {
		entry := model.MediaType{ContentType: contentType}
		if mt != nil && mt.Schema != nil {
			schema, err := parseSchema(at+"."+contentType+".schema", mt.Schema)
			if err != nil {
				return nil, err
			}
			entry.Schema = schema
		}
		out = append(out, entry)
	}
	return out, nil
}

// refOf returns the reference a high-level object was resolved from. A
// loaded document records it on the low-level object, a hand-built one
// carries it directly.
func refOf[L interface {
	comparable
	GetReference() string
}](direct string, lowObj L) string {
	var zero L
	if direct != "" || lowObj == zero {
		return direct
	}
	return lowObj.GetReference()
}

func componentRef(at, ref, section string) (string, error) {
	name, ok := refName(ref, section)
	if !ok {
		return "", errs.Ingestion(at, errs.ErrUnresolvedReference, "reference %s does not point into components.%s", ref, section)
	}
	return name, nil
}

// refName resolves a local component reference of the given section.
func refName(ref, section string) (string, bool) {
	prefix := "#/components/" + section + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, true
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
