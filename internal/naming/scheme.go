package naming

import "strings"

// Scheme holds the suffixes generated artifact names are built with.
type Scheme struct {
	ModelSuffix     string
	TagSuffix       string
	ResponseSuffix  string
	RequestSuffix   string
	InterfaceSuffix string
	// OperationSuffix is appended to artifacts of operations that exist
	// only in an extension document.
	OperationSuffix string
}

func DefaultScheme() Scheme {
	return Scheme{
		TagSuffix:      "Api",
		ResponseSuffix: "Response",
		RequestSuffix:  "Request",
	}
}

// Models assigns a generated model name to every component name, in
// order. Components whose names collide after title-casing get the
// smallest free integer suffix.
func (s Scheme) Models(components []string) map[string]string {
	in := NewInterner()
	out := make(map[string]string, len(components))
	for _, name := range components {
		out[name] = in.Unique(Title(name)) + s.ModelSuffix
	}
	return out
}

func (s Scheme) Tag(tag string) string {
	return Title(tag) + s.TagSuffix
}

func (s Scheme) Interface(tag string) string {
	return Title(tag) + s.InterfaceSuffix
}

func (s Scheme) Response(operationID string) string {
	return Title(operationID) + s.ResponseSuffix
}

func (s Scheme) Request(operationID, contentType string) string {
	return Title(operationID) + ContentTypeName(contentType) + s.RequestSuffix
}

// Extension renders name as an extension-only artifact.
func (s Scheme) Extension(name string) string {
	return name + s.OperationSuffix
}

var contentTypeNames = map[string]string{
	"application/octet-stream": "Bin",
	"application/json":         "Json",
	"text/plain":               "Text",
	"image/*":                  "AnyImage",
	"image/jpeg":               "Jpeg",
	"image/png":                "Png",
	"*/*":                      "Any",
}

// ContentTypeName returns the name fragment a media type contributes to a
// request name. An empty content type contributes nothing.
func ContentTypeName(contentType string) string {
	if contentType == "" {
		return ""
	}
	ct := strings.ToLower(contentType)
	if name, ok := contentTypeNames[ct]; ok {
		return name
	}
	return Title(ct)
}
