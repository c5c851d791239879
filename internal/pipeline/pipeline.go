// Package pipeline runs documents through ingestion, canonicalization and,
// for an extension run, the compatibility differ.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/kolah/canon/internal/compat"
	"github.com/kolah/canon/internal/config"
	"github.com/kolah/canon/internal/loader"
)

type Pipeline struct {
	config *config.Config
	log    *slog.Logger
}

// Result is handed to the emitter only once every document succeeded.
type Result struct {
	Base      *Unit
	Extension *Unit
	Compat    *compat.Result
	Features  map[string]bool
}

func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{config: cfg, log: log}
}

// Run processes the base document and, when configured, the extension.
// A base failure aborts before the extension is read.
func (p *Pipeline) Run() (*Result, error) {
	base, err := p.process("base", p.config.Spec, NewSession(p.config.Naming.Scheme(), p.config.AdditionalInitialisms, p.log))
	if err != nil {
		return nil, err
	}

	result := &Result{Base: base, Features: p.config.Features}
	if p.config.Extension == "" {
		return result, nil
	}

	extScheme := p.config.ExtensionNaming.Scheme()
	ext, err := p.process("extension", p.config.Extension, NewSession(extScheme, p.config.AdditionalInitialisms, p.log))
	if err != nil {
		return nil, err
	}

	diff := compat.Diff(base.Document, ext.Document, base.Scheme, extScheme, p.log.With("stage", "compat"))
	ext.markExtensionOperations(diff)

	result.Extension = ext
	result.Compat = diff
	return result, nil
}

func (p *Pipeline) process(role, path string, s *Session) (*Unit, error) {
	src, err := loader.LoadFile(path, loader.Options{Validate: p.config.ValidateSpec})
	if err != nil {
		return nil, fmt.Errorf("loading %s document %s: %w", role, path, err)
	}

	unit, err := s.Process(role, src)
	if err != nil {
		return nil, fmt.Errorf("processing %s document %s: %w", role, path, err)
	}
	return unit, nil
}
