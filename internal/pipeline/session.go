package pipeline

import (
	"log/slog"

	"github.com/kolah/canon/internal/canon"
	"github.com/kolah/canon/internal/ingest"
	"github.com/kolah/canon/internal/loader"
	"github.com/kolah/canon/internal/naming"
)

// Session carries the naming state of one document. Base and extension
// each get their own session and never share interners or initialisms.
type Session struct {
	scheme naming.Scheme
	namer  *naming.Namer
	log    *slog.Logger
}

func NewSession(scheme naming.Scheme, initialisms []string, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		scheme: scheme,
		namer:  naming.NewNamer(initialisms),
		log:    log,
	}
}

// Process ingests and canonicalizes a loaded document.
func (s *Session) Process(role string, src *loader.Result) (*Unit, error) {
	log := s.log.With("document", role)
	for _, w := range src.Warnings {
		log.Warn(w)
	}

	doc, err := ingest.Parse(src.Model)
	if err != nil {
		return nil, err
	}
	if err := ingest.New(doc, log.With("stage", "ingest")).Run(); err != nil {
		return nil, err
	}

	res, err := canon.New(doc.Components, log.With("stage", "canon")).Run()
	if err != nil {
		return nil, err
	}
	log.Info("canonicalized document",
		"schemas", doc.Components.Schemas.Len(), "operations", len(doc.Operations()), "rewrites", res.Rewrites)

	u := &Unit{
		Role:     role,
		Title:    src.Title,
		Version:  src.Version,
		Warnings: src.Warnings,
		Document: doc,
		Scheme:   s.scheme,
		Canon:    res,
	}
	if err := u.build(s.namer); err != nil {
		return nil, err
	}
	return u, nil
}
