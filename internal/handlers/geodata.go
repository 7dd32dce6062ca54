package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"msp-bknd/internal/codec"
	"msp-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxImportBytes caps uploaded geodata files at 20 MB.
const maxImportBytes = 20 << 20

// GeodataHandler serves the import/export/report surface of an open
// workspace.
type GeodataHandler struct {
	workspaces *services.WorkspaceService
	importer   *codec.Importer
	logr       *zap.Logger
}

func NewGeodataHandler(workspaces *services.WorkspaceService, importer *codec.Importer, logr *zap.Logger) *GeodataHandler {
	return &GeodataHandler{workspaces: workspaces, importer: importer, logr: logr}
}

// ImportFile accepts a geodata file (multipart field "file", or raw body
// with a ?filename= hint) and merges the decoded shapes into the open
// workspace. POST /projects/{id}/import
func (h *GeodataHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filename, content, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := h.importer.ImportFile(filename, content)
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	added, err := h.workspaces.ImportShapes(id, result.Shapes)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	h.logr.Info("file imported",
		zap.String("project_id", id),
		zap.String("format", string(result.Format)),
		zap.Int("added", added))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"added":  added,
	})
}

// ExportFile streams the open workspace in the requested format.
// GET /projects/{id}/export/{format}
func (h *GeodataHandler) ExportFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")

	project, err := h.workspaces.Snapshot(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	shapes := project.Shapes

	var (
		payload     []byte
		filename    string
		contentType string
	)
	switch format {
	case "json", "msp-json":
		payload, filename, err = codec.ExportJSON(project, shapes, nil, nil)
		contentType = "application/json"
	case "geojson":
		payload, filename, err = codec.ExportGeoJSON(project, shapes)
		contentType = "application/geo+json"
	case "csv":
		payload, filename, err = codec.ExportCSV(project, shapes)
		contentType = "text/csv"
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unsupported export format: " + format,
		})
		return
	}
	if err != nil {
		h.logr.Error("export failed", zap.Error(err),
			zap.String("project_id", id), zap.String("format", format))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to export project",
		})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

type reportReq struct {
	MapImageRef string `json:"map_image_ref,omitempty"`
}

// GenerateReport builds the structured research report for the open
// workspace. POST /projects/{id}/report
func (h *GeodataHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reportReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	rpt, filename, err := h.workspaces.GenerateReport(id, req.MapImageRef)
	if err != nil {
		status := http.StatusNotFound
		if strings.Contains(err.Error(), "in progress") {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":   rpt,
		"filename": filename,
	})
}

// readUpload pulls the uploaded file out of a multipart form, falling
// back to the raw body with a filename query hint.
func readUpload(r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, err
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return "", nil, err
		}
		return header.Filename, content, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	return r.URL.Query().Get("filename"), content, nil
}
