package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/documents"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/handlers"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/routes"
)

// Handler exposes the processing pipeline over HTTP. It accepts the same
// multipart form as the plain document upload endpoint.
type Handler struct {
	coordinator *Coordinator
	uploads     *documents.Handler
	logger      *slog.Logger
}

func NewHandler(coordinator *Coordinator, uploads *documents.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		uploads:     uploads,
		logger:      logger.With("handler", "pipeline"),
	}
}

// Routes returns the route group definition for pipeline endpoints. The
// group shares the /documents prefix since processing is a document verb.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/process", Handler: h.Process},
		},
	}
}

// Process uploads a file and runs it through the full pipeline, returning
// the document, its extraction, and per-stage timings.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.uploads.ReadUpload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	result, err := h.coordinator.Process(r.Context(), *cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}
