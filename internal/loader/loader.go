// Package loader reads an OpenAPI document from disk and builds the
// libopenapi model the ingestor walks.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kolah/canon/internal/errs"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"github.com/pb33f/libopenapi/datamodel"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/index"
	"github.com/pb33f/libopenapi/utils"
)

type Result struct {
	Document libopenapi.Document
	Model    *v3.Document
	Version  string
	Title    string
	Warnings []string
	RawData  []byte
}

type Options struct {
	// Validate runs the document through the OpenAPI schema validator.
	Validate bool
}

func LoadFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return loadWithConfig(data, config, opts)
}

// Load parses an in-memory document.
func Load(data []byte, opts Options) (*Result, error) {
	return loadWithConfig(data, nil, opts)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration, opts Options) (*Result, error) {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, errs.Ingestion("", errs.ErrMalformedDocument, "parsing OpenAPI document: %v", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, errs.Ingestion("openapi", errs.ErrMalformedDocument, "unsupported OpenAPI version: %s (only 3.x supported)", version)
	}

	built, err := doc.BuildV3Model()
	if built == nil {
		return nil, buildError(err)
	}

	result := &Result{
		Document: doc,
		Model:    &built.Model,
		Version:  version,
		RawData:  data,
	}

	// circular references are reported alongside a usable model
	for _, e := range utils.UnwrapErrors(err) {
		var refErr *index.ResolvingError
		if errors.As(e, &refErr) && refErr.CircularReference != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("circular reference: %s", refErr.CircularReference.GenerateJourneyPath()))
			continue
		}
		return nil, buildError(e)
	}

	if opts.Validate {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}

	if built.Model.Info != nil {
		result.Title = built.Model.Info.Title
	}

	if strings.HasPrefix(version, "3.0") {
		result.Warnings = append(result.Warnings, "OpenAPI 3.0.x detected; some 3.1/3.2 features unavailable")
	}

	return result, nil
}

func buildError(err error) error {
	if err == nil {
		return errs.Ingestion("", errs.ErrMalformedDocument, "building OpenAPI model: no model")
	}
	for _, e := range utils.UnwrapErrors(err) {
		var refErr *index.ResolvingError
		if errors.As(e, &refErr) && refErr.CircularReference == nil {
			return errs.Ingestion(refErr.Path, errs.ErrUnresolvedReference, "resolving reference: %v", refErr.ErrorRef)
		}
		var idxErr *index.IndexingError
		if errors.As(e, &idxErr) {
			return errs.Ingestion(idxErr.Path, errs.ErrUnresolvedReference, "indexing reference: %v", idxErr.Err)
		}
	}
	return errs.Ingestion("", errs.ErrMalformedDocument, "building OpenAPI model: %v", err)
}

// validate checks doc against the OpenAPI schema for its version.
func validate(doc libopenapi.Document) error {
	v, buildErrs := validator.NewValidator(doc)
	if len(buildErrs) > 0 {
		return errs.Ingestion("", errs.ErrMalformedDocument, "creating validator: %v", buildErrs[0])
	}

	ok, problems := v.ValidateDocument()
	if ok {
		return nil
	}

	msgs := make([]string, 0, len(problems))
	for _, p := range problems {
		msgs = append(msgs, p.Message)
	}
	return errs.Ingestion("", errs.ErrMalformedDocument, "document failed validation: %s", strings.Join(msgs, "; "))
}
