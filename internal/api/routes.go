package api

import (
	"net/http"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/config"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/pipeline"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	documentsHandler := domain.Documents.Handler(cfg.API.MaxUploadSizeBytes())
	pipelineHandler := pipeline.NewHandler(domain.Pipeline, documentsHandler, runtime.Logger)

	routes.Register(
		mux,
		documentsHandler.Routes(),
		pipelineHandler.Routes(),
		domain.Extractions.Handler().Routes(),
	)
}
