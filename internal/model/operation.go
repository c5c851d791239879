package model

import "strings"

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   []StatusResponse
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodTrace   Method = "TRACE"
)

// Methods lists the operation keys of a path item in the order they are
// visited.
var Methods = []Method{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// Key returns the lower-case path item key of the method.
func (m Method) Key() string {
	return strings.ToLower(string(m))
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

// Parameter, RequestBody, Response and Header are either a reference to a
// component of the matching section (Ref set, nothing else) or inline.
type Parameter struct {
	Ref         string
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Style       string
	Explode     *bool
	Schema      Node
	Content     []MediaType
}

type RequestBody struct {
	Ref         string
	Description string
	Required    bool
	Content     []MediaType
}

type StatusResponse struct {
	Status   string
	Response *Response
}

type Response struct {
	Ref         string
	Description string
	Headers     []NamedHeader
	Content     []MediaType
}

type NamedHeader struct {
	Name   string
	Header *Header
}

type Header struct {
	Ref         string
	Description string
	Required    bool
	Deprecated  bool
	Schema      Node
}

type MediaType struct {
	ContentType string
	Schema      Node
}

func (p *Parameter) Reference() string   { return p.Ref }
func (b *RequestBody) Reference() string { return b.Ref }
func (r *Response) Reference() string    { return r.Ref }
func (h *Header) Reference() string      { return h.Ref }
