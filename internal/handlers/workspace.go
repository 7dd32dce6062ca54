package handlers

import (
	"encoding/json"
	"net/http"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
	"msp-bknd/internal/services"
	"msp-bknd/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WorkspaceHandler struct {
	service *services.WorkspaceService
	logr    *zap.Logger
}

func NewWorkspaceHandler(svc *services.WorkspaceService, logr *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{service: svc, logr: logr}
}

// OpenWorkspace loads a project into memory for editing. POST /projects/open
func (h *WorkspaceHandler) OpenWorkspace(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid project payload",
		})
		return
	}

	opened := h.service.Open(&project)
	writeJSON(w, http.StatusOK, opened)
}

// CloseWorkspace discards the in-memory editing state. POST /projects/{id}/close
func (h *WorkspaceHandler) CloseWorkspace(w http.ResponseWriter, r *http.Request) {
	h.service.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// GetWorkspace returns the project with its current shape collection.
// GET /projects/{id}/workspace
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// AddShape validates and appends one shape. POST /projects/{id}/shapes
func (h *WorkspaceHandler) AddShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var shape models.Shape
	if err := json.NewDecoder(r.Body).Decode(&shape); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid shape payload",
		})
		return
	}

	added, err := h.service.AddShape(id, shape)
	if err != nil {
		h.logr.Warn("shape rejected", zap.Error(err), zap.String("project_id", id))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

type updateShapeReq struct {
	Label    *string        `json:"label,omitempty"`
	ZoneType *string        `json:"zoneType,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// UpdateShape patches the mutable fields of one shape.
// PATCH /projects/{id}/shapes/{shapeID}
func (h *WorkspaceHandler) UpdateShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shapeID := chi.URLParam(r, "shapeID")

	var req updateShapeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid shape update payload",
		})
		return
	}

	updated, err := h.service.UpdateShape(id, shapeID, req.Label, req.ZoneType, req.Data)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// RemoveShape deletes one shape. DELETE /projects/{id}/shapes/{shapeID}
func (h *WorkspaceHandler) RemoveShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shapeID := chi.URLParam(r, "shapeID")

	if err := h.service.RemoveShape(id, shapeID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearShapes empties the collection in one undoable step.
// DELETE /projects/{id}/shapes
func (h *WorkspaceHandler) ClearShapes(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearShapes(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo steps the collection back one snapshot. POST /projects/{id}/undo
func (h *WorkspaceHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.historyStep(w, r, h.service.Undo)
}

// Redo reapplies the last undone snapshot. POST /projects/{id}/redo
func (h *WorkspaceHandler) Redo(w http.ResponseWriter, r *http.Request) {
	h.historyStep(w, r, h.service.Redo)
}

func (h *WorkspaceHandler) historyStep(w http.ResponseWriter, r *http.Request, step func(string) (bool, error)) {
	id := chi.URLParam(r, "id")

	applied, err := step(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	undo, redo, _ := h.service.HistoryDepths(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied":    applied,
		"undo_depth": undo,
		"redo_depth": redo,
	})
}

// GetHistory reports undo/redo availability. GET /projects/{id}/history
func (h *WorkspaceHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	undo, redo, err := h.service.HistoryDepths(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"undo_depth": undo,
		"redo_depth": redo,
		"can_undo":   undo > 0,
		"can_redo":   redo > 0,
	})
}

type setModeReq struct {
	Mode     string `json:"mode"`
	Template string `json:"template,omitempty"`
}

var knownModes = map[session.Mode]bool{
	session.Idle:            true,
	session.DrawPolygon:     true,
	session.DrawRectangle:   true,
	session.DrawCircle:      true,
	session.DrawPoint:       true,
	session.MeasureDistance: true,
	session.MeasureBearing:  true,
}

// SetMode activates a drawing or measuring tool. PUT /projects/{id}/session/mode
func (h *WorkspaceHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setModeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid mode payload",
		})
		return
	}

	mode := session.Mode(req.Mode)
	if !knownModes[mode] {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown drawing mode: " + req.Mode,
		})
		return
	}

	if err := h.service.SetMode(id, mode, req.Template); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type clickReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Click feeds one map click to the active tool. A completed shape, if
// any, is returned. POST /projects/{id}/session/click
func (h *WorkspaceHandler) Click(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req clickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid click payload",
		})
		return
	}

	shape, err := h.service.Click(id, geo.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shape": shape, // nil while the tool is still collecting points
	})
}

// FinishShape closes out a multi-click tool. POST /projects/{id}/session/finish
func (h *WorkspaceHandler) FinishShape(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	shape, err := h.service.Finish(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shape": shape,
	})
}

// CancelMode discards pending points and returns to idle.
// POST /projects/{id}/session/cancel
func (h *WorkspaceHandler) CancelMode(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelMode(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession reports the live tool state. GET /projects/{id}/session
func (h *WorkspaceHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	mode, pending, measurement, err := h.service.SessionState(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mode":        mode,
		"pending":     pending,
		"measurement": measurement,
	})
}

// ListTemplates returns the built-in zone presets. GET /templates
func (h *WorkspaceHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := session.BuiltinTemplates()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}
