package handlers

import (
	"encoding/json"
	"net/http"

	"msp-bknd/internal/codec"
	"msp-bknd/internal/middleware"
	"msp-bknd/internal/services"
	"msp-bknd/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	service *services.ProjectService
	logr    *zap.Logger
}

func NewProjectHandler(svc *services.ProjectService, logr *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: svc, logr: logr}
}

// SaveProject persists a project document. POST /projects
func (h *ProjectHandler) SaveProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var doc codec.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid project payload",
		})
		return
	}
	if doc.Project == nil || doc.Project.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "project with a name is required",
		})
		return
	}

	id, err := h.service.Save(ctx, middleware.UserID(ctx), &doc)
	if err != nil {
		h.logr.Error("failed to save project", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save project",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// GetProject returns the stored document. GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	doc, err := h.service.Load(ctx, id)
	if err != nil {
		h.logr.Warn("failed to load project", zap.Error(err), zap.String("id", id))
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "project not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ListProjects returns summaries for the caller's projects, optionally
// filtered by tag. GET /projects?tag=coastal,offshore
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tags := utils.ParseQueryList(r.URL.Query(), "tag")

	summaries, err := h.service.List(ctx, middleware.UserID(ctx), tags)
	if err != nil {
		h.logr.Error("failed to list projects", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list projects",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": summaries,
		"count":    len(summaries),
	})
}

// DeleteProject removes a stored project. DELETE /projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(ctx, middleware.UserID(ctx), id); err != nil {
		h.logr.Warn("failed to delete project", zap.Error(err), zap.String("id", id))
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "project not found",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}
