package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"text/template"
)

type Engine interface {
	Execute(name string, data any) (string, error)
}

// TextTemplateEngine serves templates from a base file system. Files in the
// custom directory replace base templates with the same relative path.
type TextTemplateEngine struct {
	templates  *template.Template
	funcs      template.FuncMap
	base       fs.FS
	customDir  string
	overridden map[string]bool
}

func NewEngine(base fs.FS, customDir string, funcs template.FuncMap) (*TextTemplateEngine, error) {
	e := &TextTemplateEngine{
		base:       base,
		customDir:  customDir,
		funcs:      funcs,
		overridden: make(map[string]bool),
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *TextTemplateEngine) load() error {
	e.templates = template.New("").Funcs(e.funcs)

	if err := e.parseTree(e.base, "embedded", nil); err != nil {
		return fmt.Errorf("loading embedded templates: %w", err)
	}

	if e.customDir == "" {
		return nil
	}
	if _, err := os.Stat(e.customDir); os.IsNotExist(err) {
		return nil
	}
	err := e.parseTree(os.DirFS(e.customDir), "custom", func(name string) {
		e.overridden[name] = true
	})
	if err != nil {
		return fmt.Errorf("loading custom templates: %w", err)
	}
	return nil
}

// parseTree parses every .tmpl file of fsys under its slash-separated
// relative path.
func (e *TextTemplateEngine) parseTree(fsys fs.FS, origin string, parsed func(name string)) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s template %s: %w", origin, path, err)
		}
		name := strings.TrimPrefix(path, "templates/")
		if _, err := e.templates.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing %s template %s: %w", origin, path, err)
		}
		if parsed != nil {
			parsed(name)
		}
		return nil
	})
}

func (e *TextTemplateEngine) Execute(name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// Overridden lists the templates replaced from the custom directory.
func (e *TextTemplateEngine) Overridden() []string {
	names := make([]string, 0, len(e.overridden))
	for name := range e.overridden {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
