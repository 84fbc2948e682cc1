package api

import (
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/documents"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extract"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extractions"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/pipeline"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents   documents.System
	Extractions extractions.System
	Pipeline    *pipeline.Coordinator
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	extractionsSystem := extractions.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	extractor := extract.NewExtractor(
		runtime.AI,
		runtime.PromptBudget,
		runtime.Logger,
	)

	coordinator := pipeline.NewCoordinator(
		docsSystem,
		extractionsSystem,
		runtime.OCR,
		extractor,
		runtime.Logger,
	)

	return &Domain{
		Documents:   docsSystem,
		Extractions: extractionsSystem,
		Pipeline:    coordinator,
	}
}
