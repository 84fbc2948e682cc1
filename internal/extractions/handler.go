package extractions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/handlers"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/routes"
)

// Handler provides HTTP endpoints for extraction review operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "extractions"),
	}
}

// Routes returns the route group definition for extraction endpoints.
// Extractions are addressed by their document since the relationship is
// one-to-one.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/extractions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/lookups", Handler: h.Lookups},
			{Method: "GET", Pattern: "/{documentId}", Handler: h.Find},
			{Method: "PATCH", Pattern: "/{documentId}", Handler: h.UpdateFields},
			{Method: "POST", Pattern: "/{documentId}/approve", Handler: h.Approve},
			{Method: "POST", Pattern: "/{documentId}/reject", Handler: h.Reject},
		},
	}
}

// Find returns the extraction for a document.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	e, err := h.sys.FindByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// UpdateFields applies reviewer edits to an extraction.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	var cmd UpdateFieldsCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	e, err := h.sys.UpdateFields(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Approve runs the approval gate and completes the document on success.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	var cmd ApproveCommand
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
			return
		}
	}

	e, err := h.sys.Approve(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Reject marks a reviewed document as failed with a reason.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	var cmd RejectCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidField)
		return
	}

	if err := h.sys.Reject(r.Context(), id, cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Lookups returns the known-name sets used by the approval gate so review
// UIs can offer matching values.
func (h *Handler) Lookups(w http.ResponseWriter, r *http.Request) {
	sets, err := h.sys.Lookups(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lookupsResponse{
		Patients: sortedNames(sets.Patients),
		Doctors:  sortedNames(sets.Doctors),
		Contacts: sortedNames(sets.Contacts),
	})
}

type lookupsResponse struct {
	Patients []string `json:"patients"`
	Doctors  []string `json:"doctors"`
	Contacts []string `json:"contacts"`
}
