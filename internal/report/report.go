// Package report renders a pipeline result as a text summary, YAML or JSON.
package report

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kolah/canon/internal/compat"
	"github.com/kolah/canon/internal/pipeline"
	"github.com/kolah/canon/internal/templates"
	embeddedtmpl "github.com/kolah/canon/templates"
	"go.yaml.in/yaml/v4"
)

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

type Reporter struct {
	engine     templates.Engine
	overridden []string
}

type templateData struct {
	Base      *pipeline.Unit
	Extension *pipeline.Unit
	Compat    *compat.Result
	Features  map[string]bool
}

// document is the serialized form of a result.
type document struct {
	Base      *pipeline.Unit  `yaml:"base" json:"base"`
	Extension *pipeline.Unit  `yaml:"extension,omitempty" json:"extension,omitempty"`
	Compat    *compatDocument `yaml:"compat,omitempty" json:"compat,omitempty"`
	Features  map[string]bool `yaml:"features,omitempty" json:"features,omitempty"`
}

type compatDocument struct {
	Components          map[string]string `yaml:"components" json:"components"`
	Responses           map[string]string `yaml:"responses" json:"responses"`
	Requests            map[string]string `yaml:"requests" json:"requests"`
	ExtensionOperations []string          `yaml:"extensionOperations,omitempty" json:"extensionOperations,omitempty"`
	Incompatible        []string          `yaml:"incompatible,omitempty" json:"incompatible,omitempty"`
}

func New(templateDir string) (*Reporter, error) {
	engine, err := templates.NewEngine(embeddedtmpl.FS, templateDir, TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}
	return &Reporter{engine: engine, overridden: engine.Overridden()}, nil
}

// Overridden lists the templates taken from the custom template directory.
func (r *Reporter) Overridden() []string {
	return r.overridden
}

func (r *Reporter) Render(res *pipeline.Result, format Format) ([]byte, error) {
	switch format {
	case "", FormatText:
		out, err := r.engine.Execute("report/summary.tmpl", templateData{
			Base:      res.Base,
			Extension: res.Extension,
			Compat:    res.Compat,
			Features:  res.Features,
		})
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case FormatYAML:
		out, err := yaml.Marshal(newDocument(res))
		if err != nil {
			return nil, fmt.Errorf("encoding yaml report: %w", err)
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(newDocument(res), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json report: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func newDocument(res *pipeline.Result) document {
	doc := document{
		Base:      res.Base,
		Extension: res.Extension,
		Features:  res.Features,
	}
	if c := res.Compat; c != nil {
		doc.Compat = &compatDocument{
			Components:          c.Components,
			Responses:           c.Responses,
			Requests:            c.Requests,
			ExtensionOperations: c.ExtensionOperations,
			Incompatible:        c.Incompatible,
		}
	}
	return doc
}
